package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "state",
		Aliases: []string{"status"},
		Short:   "Show your Lightwalker's level, mood and attributes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			now := time.Now()
			st, _, err := svc.State(ctx, owner(), now, now, cfg.Weights())
			if err != nil {
				return err
			}
			stats, err := svc.Stats(ctx, owner())
			if err != nil {
				return err
			}
			lastWeek, err := svc.CompletedSince(ctx, owner(), now.AddDate(0, 0, -7))
			if err != nil {
				return err
			}
			nextReq := engine.CompletionsRequiredForLevel(st.Level + 1)
			toNext := max(0, nextReq-stats.TotalActivitiesCompleted)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Lightwalker"))
			fmt.Fprintln(out, ui.LabelValue("Level", st.Level))
			fmt.Fprintln(out, ui.LabelValue("Completed", fmt.Sprintf("%d (next level at %d, %d to go)", stats.TotalActivitiesCompleted, nextReq, toNext)))
			fmt.Fprintln(out, ui.LabelValue("Last 7 days", lastWeek))
			fmt.Fprintln(out, ui.LabelValue("Points", st.TotalPoints))
			fmt.Fprintln(out, ui.LabelValue("Mood", ui.MoodIcon(st.CurrentMood)+" "+ui.MoodText(st.CurrentMood)))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%d day(s), best %d", st.CurrentStreakDays, st.LongestStreak)))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("🧭 Attributes"))
			if len(st.ActiveAttributes) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none above threshold)"))
			}
			glow := map[string]bool{}
			for _, g := range st.GlowingAttributes {
				glow[g] = true
			}
			for _, a := range st.ActiveAttributes {
				if glow[a] {
					fmt.Fprintf(out, "- %s\n", ui.BadgeGlow.Render(a+" "+ui.IconSparkle))
					continue
				}
				fmt.Fprintf(out, "- %s\n", a)
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("👤 Role models"))
			for _, rm := range st.DominantRoleModels {
				fmt.Fprintf(out, "- %s %s\n", rm.Name, ui.Muted.Render(fmt.Sprintf("%.0f%%", rm.Influence*100)))
			}
			fmt.Fprintln(out, "")

			ms := engine.Milestones(stats)
			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s Milestones (%d/%d)", ui.IconTrophy, engine.CountEarned(ms), len(ms))))
			for _, m := range ms {
				if m.Earned {
					fmt.Fprintf(out, "- %s %s\n", m.Icon, ui.Good.Render(m.Name))
					continue
				}
				fmt.Fprintf(out, "- %s %s %s\n", ui.Dim.Render("🔒"), ui.Muted.Render(m.Name), ui.Dim.Render(m.Description))
			}
			return nil
		},
	}
	return cmd
}
