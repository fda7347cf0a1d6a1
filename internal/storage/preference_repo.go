package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type PreferenceRepo struct {
	db DBTX
}

func NewPreferenceRepo(db DBTX) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

const preferenceColumns = `id, owner_key, activity_id,
	title, description, duration, icon, points, difficulty, category,
	active, created_at, updated_at`

// GetActive returns the active preference for (owner, activity), or nil.
func (r *PreferenceRepo) GetActive(ctx context.Context, ownerKey, activityID string) (*Preference, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+preferenceColumns+`
		FROM preferences
		WHERE owner_key = ? AND activity_id = ? AND active = 1
	`, ownerKey, activityID)
	p, err := scanPreference(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("preference get: %w", err)
	}
	return p, nil
}

// ListActive returns every active preference of an owner.
func (r *PreferenceRepo) ListActive(ctx context.Context, ownerKey string) ([]Preference, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+preferenceColumns+`
		FROM preferences
		WHERE owner_key = ? AND active = 1
		ORDER BY activity_id ASC
	`, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("preference list: %w", err)
	}
	defer rows.Close()

	var out []Preference
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, fmt.Errorf("preference scan: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("preference rows: %w", err)
	}
	return out, nil
}

// Save inserts p when it has no id, otherwise rewrites its override columns.
func (r *PreferenceRepo) Save(ctx context.Context, p *Preference, now time.Time) error {
	if p.ID == 0 {
		args := append([]any{p.OwnerKey, p.ActivityID}, p.Overrides.args()...)
		args = append(args, now, now)
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO preferences (
				owner_key, activity_id,
				title, description, duration, icon, points, difficulty, category,
				active, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
		`, args...)
		if err != nil {
			return fmt.Errorf("preference insert: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("preference last insert id: %w", err)
		}
		p.ID = id
		p.Active = true
		p.CreatedAt = now
		p.UpdatedAt = now
		return nil
	}

	args := append(p.Overrides.args(), now, p.ID)
	_, err := r.db.ExecContext(ctx, `
		UPDATE preferences
		SET title = ?, description = ?, duration = ?, icon = ?, points = ?, difficulty = ?, category = ?,
			updated_at = ?
		WHERE id = ?
	`, args...)
	if err != nil {
		return fmt.Errorf("preference update: %w", err)
	}
	p.UpdatedAt = now
	return nil
}

// Deactivate soft-deletes the active preference. It reports whether one existed.
func (r *PreferenceRepo) Deactivate(ctx context.Context, ownerKey, activityID string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE preferences SET active = 0, updated_at = ?
		WHERE owner_key = ? AND activity_id = ? AND active = 1
	`, now, ownerKey, activityID)
	if err != nil {
		return false, fmt.Errorf("preference deactivate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("preference rows affected: %w", err)
	}
	return n > 0, nil
}

func scanPreference(row scanner) (*Preference, error) {
	var (
		p      Preference
		o      overrideDest
		active int
	)
	dest := append([]any{&p.ID, &p.OwnerKey, &p.ActivityID}, o.targets()...)
	dest = append(dest, &active, &p.CreatedAt, &p.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	p.Overrides = o.columns()
	p.Active = active != 0
	return &p, nil
}
