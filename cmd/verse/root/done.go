package root

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sacredverse/internal/ui"
)

func newDoneCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <n>",
		Short: "Toggle deed n of today's entry",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("deed number is required")
			}
			if n, err := strconv.Atoi(args[0]); err != nil || n < 1 {
				return errors.New("deed number must be a positive integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := strconv.Atoi(args[0])
			a, cleanup, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := a.ToggleToday(cmd.Context(), n-1)
			if err != nil {
				return err
			}
			c.logger.Info("deed toggled",
				zap.Int("day", res.Day),
				zap.Int("deed", res.Deed),
				zap.Bool("checked", res.Checked),
				zap.Int("streak", res.Streak))

			out := cmd.OutOrStdout()
			if res.Checked {
				fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" Marked done"))
			} else {
				fmt.Fprintln(out, ui.Muted.Render("Unmarked"))
			}
			fmt.Fprintln(out, res.Ack)
			fmt.Fprintln(out, ui.Stat(ui.IconFire+" Streak", res.Streak)+"   "+ui.Stat(ui.IconSpark+" Total", res.TotalPoints))
			for _, b := range res.NewBadges {
				fmt.Fprintln(out, ui.Gold.Render(fmt.Sprintf("%s Nice, %d-day streak! New badge unlocked.", ui.IconMedal, b)))
			}
			return nil
		},
	}
	return cmd
}
