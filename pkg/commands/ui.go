package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/calendiary/pkg/logging"
	teaui "tableflip.dev/calendiary/pkg/runner/tea"
	"tableflip.dev/calendiary/pkg/store"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the calendar and entry editor",
		Long: `Open the terminal calendar. Pick a day and press enter to write its entry;
changes are saved automatically after a short pause.

While the calendar owns the terminal, logs go to the configured log file.`,
		Example: `
calendiary ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			log, closer, err := logging.File(cfg.LogFile(), cfg.LogLevel())
			if err != nil {
				return err
			}
			defer closer.Close()

			s, err := openStoreWith(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer s.Close()

			r := teaui.Runner{
				Storage:  s,
				AutoSave: cfg.AutoSave(),
				Log:      logging.Component(log, "ui"),
			}
			return r.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
