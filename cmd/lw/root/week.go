package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func newWeekCmd() *cobra.Command {
	var start string
	var days int

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Summarize the coming days",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			from, err := parseDay(start)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("days") {
				days = cfg.Schedule.WeekDays
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			week, err := svc.Week(ctx, owner(), from, days, time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSun, "Week from "+week[0].Date))
			for _, s := range week {
				d, _ := engine.ParseDate(s.Date)
				fmt.Fprintf(out, "%s %s %s %s\n",
					ui.Key.Render(d.Format("Mon")), s.Date,
					ui.ProgressBar(s.CompletionPercentage, 10),
					ui.Muted.Render(fmt.Sprintf("%d/%d · %d pts", s.CompletedCount, len(s.Activities), s.TotalPoints)))
				for _, v := range s.Activities {
					fmt.Fprintf(out, "    %s %s %s\n", ui.StatusIcon(v, nil), ui.ClockText(v), v.Title)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "from", "", "First day (YYYY-MM-DD, default today)")
	cmd.Flags().IntVarP(&days, "days", "n", 7, "Number of days")
	return cmd
}
