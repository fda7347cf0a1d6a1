package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func newMoveCmd() *cobra.Command {
	var from, to, at string

	cmd := &cobra.Command{
		Use:   "move <instance_id>",
		Short: "Reschedule an activity to another day or time",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("instance_id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if to == "" && at == "" {
				return errors.New("nothing to change: pass --to and/or --at")
			}
			fromDay, err := parseDay(from)
			if err != nil {
				return err
			}
			toDay := fromDay
			if to != "" {
				if toDay, err = parseDay(to); err != nil {
					return err
				}
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			inst, err := svc.Reschedule(ctx, owner(), engine.RescheduleInput{
				InstanceID: args[0],
				From:       fromDay,
				Date:       toDay,
				Time:       at,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s → %s %s %s\n", ui.Good.Render(ui.IconLoop+" Moved"), args[0], inst.Date, inst.Time, ui.Muted.Render("#"+inst.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "date", "", "Day the activity is shown on (default today)")
	cmd.Flags().StringVar(&to, "to", "", "New day")
	cmd.Flags().StringVarP(&at, "at", "t", "", "New time HH:MM")
	return cmd
}
