package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/calendiary/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the diary and where it is stored.",
		Example: `
calendiary info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, cfg, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			r := info.Info{
				Config:  cfg,
				Storage: s,
			}
			return r.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
