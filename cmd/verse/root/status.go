package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sacredverse/internal/daily"
	"sacredverse/internal/ui"
)

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show streak, points and today's progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			meta := a.Tracker.Meta()
			idx, entry := a.Today()
			last := "never"
			if meta.LastCompletedDate != nil {
				last = *meta.LastCompletedDate
			}

			saved := "not yet"
			if at, ok, err := a.LastSaved(cmd.Context()); err != nil {
				return err
			} else if ok {
				saved = at.In(daily.IST).Format("2006-01-02 15:04")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconLeaf, "SacredVerse Status"))
			fmt.Fprintln(out, ui.Stat("Today", fmt.Sprintf("%s (day %d / %d)", a.Selector.Today(), idx+1, len(a.Entries()))))
			fmt.Fprintln(out, ui.Stat(ui.IconPoints+" Good Points", fmt.Sprintf("%d / %d", a.Tracker.DoneOn(idx), len(entry.Deeds))))
			fmt.Fprintln(out, ui.Stat(ui.IconFire+" Streak", meta.Streak))
			fmt.Fprintln(out, ui.Stat(ui.IconSpark+" Total", meta.TotalPoints))
			fmt.Fprintln(out, ui.Stat("Last completed", last))
			fmt.Fprintln(out, ui.Stat("Last saved", saved))
			fmt.Fprintln(out, ui.Stat("Next verse in", a.Selector.UntilNextMidnight().Round(time.Minute).String()))
			return nil
		},
	}
}
