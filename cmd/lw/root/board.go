package root

import (
	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, svc, tui.BoardOptions{
				Owner:     owner(),
				Weights:   cfg.Weights(),
				NextCount: cfg.Schedule.NextCount,
			}, cmd.OutOrStdout())
		},
	}
	return cmd
}
