package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func newMaterializeCmd() *cobra.Command {
	var from string
	var days int

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Store the recurring activities of the coming days",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			start, err := parseDay(from)
			if err != nil {
				return err
			}
			if days <= 0 {
				days = 1
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			end := start.AddDate(0, 0, days-1)
			n, err := svc.Materialize(ctx, owner(), start, end)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconScroll+" Planned"), ui.Muted.Render(fmt.Sprintf("(%d new activities)", n)))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (default today)")
	cmd.Flags().IntVarP(&days, "days", "n", 7, "Number of days")
	return cmd
}
