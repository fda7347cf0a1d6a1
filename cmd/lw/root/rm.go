package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <instance_id>",
		Short: "Remove a scheduled activity",
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

			err = svc.RemoveInstance(ctx, owner(), args[0])
			if errors.Is(err, engine.ErrRecurringOccurrence) {
				return fmt.Errorf("%w; use `lw undo` to clear its completion, `lw move` to shift this day or `lw customize` to change the activity", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render("🗑 Removed"), ui.Muted.Render("#"+args[0]))
			return nil
		},
	}
	return cmd
}
