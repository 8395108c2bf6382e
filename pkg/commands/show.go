package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/commands/options"
	"tableflip.dev/calendiary/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	po := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "show the calendar of a month",
		Example: `
calendiary show
calendiary show --on 2024-2-1
calendiary show --json
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

			r := show.Show{
				Storage: s,
				Year:    on.Year,
				Month:   on.Month,
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
