package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/commands/options"
	"tableflip.dev/calendiary/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	po := &options.OutputOptions{}
	all := false

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list the entries of a month",
		Example: `
calendiary list
calendiary list --on 2023-12-1
calendiary list --all --json
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

			r := list.List{
				Storage: s,
				Year:    on.Year,
				Month:   on.Month,
				All:     all,
				JSON:    po.JSON,
			}
			err = r.Do(cmd.Context())
			return po.HandleError(err)
		},
	}

	options.AddOnArgs(cmd, oo)
	options.AddOutputArg(cmd, po)
	cmd.Flags().BoolVar(&all, "all", false, "List every entry, most recent first.")

	topLevel.AddCommand(cmd)
}
