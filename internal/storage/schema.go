package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			duration TEXT NOT NULL DEFAULT '',
			points INTEGER NOT NULL DEFAULT 0,
			difficulty INTEGER NOT NULL DEFAULT 1,
			category TEXT NOT NULL,
			icon TEXT NOT NULL DEFAULT '',
			attribute TEXT NOT NULL DEFAULT '',
			role_model TEXT NOT NULL DEFAULT '',
			role_model_color TEXT NOT NULL DEFAULT '',
			scheduled_time TEXT NOT NULL DEFAULT '',
			pattern TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS preferences (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_key TEXT NOT NULL,
			activity_id TEXT NOT NULL,

			title TEXT,
			description TEXT,
			duration TEXT,
			icon TEXT,
			points INTEGER,
			difficulty INTEGER,
			category TEXT,

			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		// At most one active preference per (owner, activity); inactive rows are history.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_preferences_active
			ON preferences(owner_key, activity_id) WHERE active = 1;`,
		// Occurrence ids are deterministic per template and date, so they are
		// only unique within an owner.
		`CREATE TABLE IF NOT EXISTS scheduled_instances (
			id TEXT NOT NULL,
			activity_id TEXT NOT NULL,
			owner_key TEXT NOT NULL,
			scheduled_date TEXT NOT NULL,
			scheduled_time TEXT NOT NULL DEFAULT '',

			title TEXT,
			description TEXT,
			duration TEXT,
			icon TEXT,
			points INTEGER,
			difficulty INTEGER,
			category TEXT,

			completed INTEGER NOT NULL DEFAULT 0,
			completed_at DATETIME,
			rating INTEGER,
			notes TEXT,
			parent_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (owner_key, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_instances_owner_date ON scheduled_instances(owner_key, scheduled_date);`,
		`CREATE TABLE IF NOT EXISTS owner_stats (
			owner_key TEXT PRIMARY KEY,
			total_completed INTEGER NOT NULL DEFAULT 0,
			total_points INTEGER NOT NULL DEFAULT 0,
			current_streak INTEGER NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0,
			last_completed_date TEXT
		);`,
		// Needed to deduct exactly what a completion awarded when it is undone.
		`CREATE TABLE IF NOT EXISTS completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			instance_id TEXT NOT NULL,
			owner_key TEXT NOT NULL,
			completed_at DATETIME NOT NULL,
			points_awarded INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_instance ON completions(owner_key, instance_id, completed_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
