package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"sacredverse/internal/app"
	"sacredverse/internal/ui"
)

func newBadgesCmd(c *cli) *cobra.Command {
	var share bool
	cmd := &cobra.Command{
		Use:   "badges",
		Short: "List badges, unlocked and locked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			meta := a.Tracker.Meta()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconMedal, "Your Badges"))
			for _, threshold := range a.Tracker.Thresholds() {
				fmt.Fprintln(out, "- "+ui.BadgeLine(threshold, meta.HasBadge(threshold)))
			}
			if share {
				if len(meta.Badges) == 0 {
					fmt.Fprintln(out, ui.Muted.Render("No badges yet. Keep going!"))
					return nil
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, app.ShareText(meta.Badges[len(meta.Badges)-1]))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&share, "share", false, "print share text for the highest badge")
	return cmd
}
