package commands

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/commands/options"
	"tableflip.dev/calendiary/pkg/runner/write"
)

func addWrite(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	po := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "write [text]",
		Short: "replace the entry of a day",
		Long: `Replace the entry of a day with the given text. Without text the entry is
read from stdin. Writing blank text deletes the entry.`,
		Example: `
calendiary write "Went skating with Sam."
calendiary write --on yesterday < notes.txt
calendiary write --on 2024-1-15 ""
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			on, err := oo.GetOn(calendar.Today(nil))
			if err != nil {
				return po.HandleError(err)
			}
			content, err := readContent(cmd.InOrStdin(), args)
			if err != nil {
				return po.HandleError(err)
			}
			s, _, _, err := openStore(cmd.Context())
			if err != nil {
				return po.HandleError(err)
			}
			defer s.Close()

			r := write.Write{
				Storage: s,
				On:      on,
				Content: content,
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

// readContent joins args, or reads in when there are none. An interactive
// terminal is refused so the command never blocks waiting for input.
func readContent(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return "", errors.New("no text given; pass it as an argument or pipe it on stdin")
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}
