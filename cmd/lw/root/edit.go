package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func newEditCmd() *cobra.Command {
	var date string
	var of overrideFlags

	cmd := &cobra.Command{
		Use:   "edit <instance_id>",
		Short: "Customize a single scheduled activity",
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
			overrides, err := of.overrides(cmd)
			if err != nil {
				return err
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			inst, err := svc.EditInstance(ctx, owner(), engine.EditInput{InstanceID: args[0], Date: day, Overrides: overrides})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconSparkle+" Updated"), inst.ActivityID, ui.Muted.Render("#"+inst.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day the activity is shown on (default today)")
	of.register(cmd)
	return cmd
}
