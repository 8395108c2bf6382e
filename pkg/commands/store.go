package commands

import (
	"context"

	"github.com/rs/zerolog"

	"tableflip.dev/calendiary/pkg/diary"
	"tableflip.dev/calendiary/pkg/logging"
	"tableflip.dev/calendiary/pkg/store"
)

// openStore loads the config and opens the configured backend with a
// stderr logger. The caller closes the storage.
func openStore(ctx context.Context) (diary.Storage, store.Config, zerolog.Logger, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	log := logging.Console(cfg.LogLevel())
	s, err := openStoreWith(ctx, cfg, log)
	if err != nil {
		return nil, nil, log, err
	}
	return s, cfg, log, nil
}

// openStoreWith opens the backend named by cfg, logging to log. Used by
// verbs that own the terminal or stdout and cannot log to stderr freely.
func openStoreWith(ctx context.Context, cfg store.Config, log zerolog.Logger) (diary.Storage, error) {
	return store.Open(ctx, cfg, store.WithLogger(logging.Component(log, "store")))
}
