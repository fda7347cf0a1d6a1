package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in activity catalog to the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, cleanup, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := newService(db).SeedCatalog(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconScroll+" Seeded"), ui.Muted.Render(fmt.Sprintf("(%d activities)", n)))
			return nil
		},
	}
	return cmd
}
