package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type ActivityRepo struct {
	db DBTX
}

func NewActivityRepo(db DBTX) *ActivityRepo {
	return &ActivityRepo{db: db}
}

const activityColumns = `id, title, description, duration, points, difficulty, category, icon,
	attribute, role_model, role_model_color, scheduled_time, pattern, sort_order`

// Upsert inserts a catalog row or refreshes an existing one with the same id.
func (r *ActivityRepo) Upsert(ctx context.Context, a Activity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			duration = excluded.duration,
			points = excluded.points,
			difficulty = excluded.difficulty,
			category = excluded.category,
			icon = excluded.icon,
			attribute = excluded.attribute,
			role_model = excluded.role_model,
			role_model_color = excluded.role_model_color,
			scheduled_time = excluded.scheduled_time,
			pattern = excluded.pattern,
			sort_order = excluded.sort_order
	`, a.ID, a.Title, a.Description, a.Duration, a.Points, a.Difficulty, a.Category, a.Icon,
		a.Attribute, a.RoleModel, a.RoleModelColor, a.ScheduledTime, a.Pattern, a.SortOrder)
	if err != nil {
		return fmt.Errorf("activity upsert: %w", err)
	}
	return nil
}

func (r *ActivityRepo) Get(ctx context.Context, id string) (*Activity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("activity get: %w", err)
	}
	return a, nil
}

// ListAll returns the catalog in its seeded order.
func (r *ActivityRepo) ListAll(ctx context.Context) ([]Activity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("activity list: %w", err)
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("activity scan: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity rows: %w", err)
	}
	return out, nil
}

func scanActivity(row scanner) (*Activity, error) {
	var (
		a       Activity
		pattern sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Duration, &a.Points, &a.Difficulty,
		&a.Category, &a.Icon, &a.Attribute, &a.RoleModel, &a.RoleModelColor, &a.ScheduledTime,
		&pattern, &a.SortOrder); err != nil {
		return nil, err
	}
	a.Pattern = nullString(pattern)
	return &a, nil
}
