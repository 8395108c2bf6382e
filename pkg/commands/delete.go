package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/commands/options"
	"tableflip.dev/calendiary/pkg/runner/write"
)

func addDelete(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	po := &options.OutputOptions{}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "delete the entry of a day",
		Example: `
calendiary delete --on yesterday
calendiary delete --on 2024-1-15 --yes
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			on, err := oo.GetOn(calendar.Today(nil))
			if err != nil {
				return po.HandleError(err)
			}
			if po.JSON && !co.Yes {
				return po.HandleError(errors.New("--json needs --yes, there is no one to confirm"))
			}
			ok, err := co.Confirm(fmt.Sprintf("Delete the entry of %s?", calendar.FormatLong(on)))
			if err != nil {
				return po.HandleError(err)
			}
			if !ok {
				return nil
			}

			s, _, _, err := openStore(cmd.Context())
			if err != nil {
				return po.HandleError(err)
			}
			defer s.Close()

			r := write.Delete{
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
	options.AddConfirmArgs(cmd, co)

	topLevel.AddCommand(cmd)
}
