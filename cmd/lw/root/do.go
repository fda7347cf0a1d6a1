package root

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func newDoCmd() *cobra.Command {
	var date string
	var rating int
	var notes string

	cmd := &cobra.Command{
		Use:   "do <instance_id>",
		Short: "Complete an activity",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("instance_id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			in := engine.CompleteInput{InstanceID: args[0], Date: day, At: time.Now()}
			if cmd.Flags().Changed("rating") {
				in.Rating = &rating
			}
			if cmd.Flags().Changed("notes") {
				in.Notes = &notes
			}

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Complete(ctx, owner(), in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconDone+" Completed"), res.ActivityID, ui.Muted.Render(fmt.Sprintf("(+%d pts)", res.PointsAwarded)))
			fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d → %d", res.LevelBefore, res.LevelAfter)))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%d day(s) %s", res.Stats.CurrentStreakDays, ui.IconFlame)))
			if res.LevelUp {
				fmt.Fprintln(out, ui.BadgeLevelUp)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day the activity is shown on (default today)")
	cmd.Flags().IntVar(&rating, "rating", 0, fmt.Sprintf("Rating (%d-%d)", engine.MinRating, engine.MaxRating))
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	return cmd
}
