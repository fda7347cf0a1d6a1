package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func newAddCmd() *cobra.Command {
	var date string
	var at string
	var of overrideFlags

	cmd := &cobra.Command{
		Use:   "add <activity_id>",
		Short: "Schedule a catalog activity on a day",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("activity_id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			overrides, err := of.overrides(cmd)
			if err != nil {
				return err
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			inst, err := svc.ScheduleActivity(ctx, owner(), engine.ScheduleInput{
				ActivityID: args[0],
				Date:       day,
				Time:       at,
				Overrides:  overrides,
			})
			if err != nil {
				return err
			}
			when := inst.Date
			if inst.Time != "" {
				when += " " + inst.Time
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Good.Render(ui.IconPlus+" Scheduled"), inst.ActivityID, ui.Muted.Render(when), ui.Muted.Render("#"+inst.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().StringVarP(&at, "at", "t", "", "Time HH:MM (default: the activity's usual time)")
	of.register(cmd)
	return cmd
}
