package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/commands/options"
	"tableflip.dev/calendiary/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	po := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "get",
		Short: "print the entry of a day",
		Example: `
calendiary get
calendiary get --on yesterday
calendiary get --on 2024-1-15 --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			on, err := oo.GetOn(calendar.Today(nil))
			if err != nil {
				return po.HandleError(err)
			}
			s, _, _, err := openStore(cmd.Context())
			if err != nil {
				return po.HandleError(err)
			}
			defer s.Close()

			r := get.Get{
				Storage: s,
				On:      on,
				JSON:    po.JSON,
			}
			err = r.Do(cmd.Context())
			return po.HandleError(err)
		},
	}

	options.AddOnArgs(cmd, oo)
	options.AddOutputArg(cmd, po)

	topLevel.AddCommand(cmd)
}
