// Package store provides the diary.Storage backends: a diskv file tree with
// an fsnotify change feed, and a SQLite database.
package store

import (
	"context"
	"fmt"
	"path/filepath"

	"tableflip.dev/calendiary/pkg/diary"
)

// Open returns the backend selected by cfg. A nil cfg loads the config.
func Open(ctx context.Context, cfg Config, opts ...Option) (diary.Storage, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	switch cfg.Backend() {
	case BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(cfg.BasePath(), sqliteFile), opts...)
	case BackendDiskv, "":
		return NewDisk(cfg.BasePath(), opts...), nil
	}
	return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend())
}
