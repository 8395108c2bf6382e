package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/calendiary/pkg/diary"
	"tableflip.dev/calendiary/pkg/store"
)

// Info prints where calendiary keeps its data and how many entries it holds.
type Info struct {
	Config  store.Config
	Storage diary.Storage
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("CALENDIARY_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "CALENDIARY_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "CALENDIARY_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.path:    ", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.backend: ", n.Config.Backend())
	_, _ = fmt.Fprintln(out, "Config.autosave:", n.Config.AutoSave())
	_, _ = fmt.Fprintln(out, "Config.log.file:", n.Config.LogFile())

	if n.Storage == nil {
		return fmt.Errorf("failed to create storage")
	}

	all, err := n.Storage.AllEntries(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Entries:         %d\n", len(all))
	if len(all) > 0 {
		_, _ = fmt.Fprintf(out, "  newest %s\n  oldest %s\n", all[0].Date, all[len(all)-1].Date)
	}
	return nil
}
