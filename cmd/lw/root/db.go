package root

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/storage"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := cfg.DBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

// openService opens the database and makes sure the built-in catalog exists.
func openService(ctx context.Context) (*engine.Service, func(), error) {
	db, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc := newService(db)
	if _, err := svc.SeedCatalog(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

func newService(db *sql.DB) *engine.Service {
	return engine.NewService(db, engine.WithLogger(logger))
}

func owner() engine.OwnerStrategy {
	return cfg.OwnerIdentity()
}

// parseDay parses a --date flag value; empty means today.
func parseDay(s string) (time.Time, error) {
	switch s {
	case "", "today":
		return time.Now(), nil
	case "tomorrow":
		return time.Now().AddDate(0, 0, 1), nil
	case "yesterday":
		return time.Now().AddDate(0, 0, -1), nil
	}
	d, err := time.ParseInLocation(engine.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the database path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cfg.DBPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cleanup, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Schema up to date"))
			return nil
		},
	})
	return cmd
}
