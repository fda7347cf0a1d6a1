package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "undo <instance_id>",
		Aliases: []string{"restore"},
		Short:   "Undo a completion",
		Long: `Mark a completed activity as pending again.

This will:
- Clear the completion on the instance
- Deduct the points the last completion awarded

The streak is left as it is.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("instance_id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Uncomplete(ctx, owner(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Warn.Render(ui.IconLoop+" Restored"), ui.Muted.Render("#"+res.InstanceID), ui.Muted.Render(fmt.Sprintf("(-%d pts)", res.PointsDeducted)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Total points", res.Stats.TotalPoints))
			return nil
		},
	}
	return cmd
}
