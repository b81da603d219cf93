package root

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"sacredverse/internal/ui"
)

func newTodayCmd(c *cli) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Print today's verse and deeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			idx, entry := a.Today()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconLeaf, fmt.Sprintf("Day %d / %d", idx+1, len(a.Entries()))))

			var md strings.Builder
			fmt.Fprintf(&md, "## %s\n\n%s\n\n", entry.Title, entry.Text)
			for i, deed := range entry.Deeds {
				mark := " "
				if a.Tracker.Done(idx, i) {
					mark = "x"
				}
				fmt.Fprintf(&md, "- [%s] %d. %s\n", mark, i+1, deed)
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return err
			}
			rendered, err := renderer.Render(md.String())
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
			fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("Mark a deed with: verse done <n>   (%d of %d done)", a.Tracker.DoneOn(idx), len(entry.Deeds))))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	return cmd
}
