package root

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func newTodayCmd() *cobra.Command {
	var date string
	var showAll bool

	cmd := &cobra.Command{
		Use:     "today",
		Aliases: []string{"day", "list"},
		Short:   "Show the schedule for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			sched, err := svc.Day(ctx, owner(), day, time.Now(), cfg.Schedule.NextCount)
			if err != nil {
				return err
			}
			printSchedule(cmd.OutOrStdout(), sched, showAll)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD, today, tomorrow, yesterday)")
	cmd.Flags().BoolVarP(&showAll, "ids", "i", false, "Show instance ids")
	return cmd
}

func printSchedule(out io.Writer, s engine.DailySchedule, ids bool) {
	fmt.Fprintln(out, ui.Heading(ui.IconSun, "Schedule for "+s.Date))
	fmt.Fprintf(out, "%s %s\n", ui.ProgressBar(s.CompletionPercentage, 20),
		ui.Muted.Render(fmt.Sprintf("%d/%d done · %.0f%% · %d pts", s.CompletedCount, len(s.Activities), s.CompletionPercentage, s.TotalPoints)))
	fmt.Fprintln(out, "")

	if len(s.Activities) == 0 {
		fmt.Fprintln(out, ui.Muted.Render("Nothing scheduled. Try: lw add <activity>"))
		return
	}
	for _, v := range s.Activities {
		line := fmt.Sprintf("%s %s %s %s %s", ui.StatusIcon(v, s.Current), ui.ClockText(v), ui.CategoryIcon(v.Category), v.Title,
			ui.Dim.Render(fmt.Sprintf("(%s, %d pts)", v.Duration, v.Points)))
		if v.RoleModel != "" {
			line += " " + ui.RoleModel(v.RoleModel, v.RoleModelColor)
		}
		if ids {
			line += " " + ui.Muted.Render("#"+v.ID)
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintln(out, "")
	if s.Current != nil {
		fmt.Fprintf(out, "%s %s %s\n", ui.Key.Render(ui.IconNow+" Now:"), s.Current.Title, ui.Muted.Render(s.Current.Time))
	}
	if len(s.Next) > 0 {
		fmt.Fprint(out, ui.Key.Render("Up next:"))
		for _, v := range s.Next {
			fmt.Fprintf(out, " %s %s", ui.Muted.Render(v.Time), v.Title)
		}
		fmt.Fprintln(out, "")
	}
	for _, id := range s.Unresolved {
		fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" unknown activity "+id))
	}
}
