package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type InstanceRepo struct {
	db DBTX
}

func NewInstanceRepo(db DBTX) *InstanceRepo {
	return &InstanceRepo{db: db}
}

const instanceColumns = `id, activity_id, owner_key, scheduled_date, scheduled_time,
	title, description, duration, icon, points, difficulty, category,
	completed, completed_at, rating, notes, parent_id`

func (in Instance) insertArgs() []any {
	args := []any{in.ID, in.ActivityID, in.OwnerKey, in.Date, in.Time}
	args = append(args, in.Overrides.args()...)
	return append(args, boolToInt(in.Completed), in.CompletedAt, in.Rating, in.Notes, in.ParentID)
}

func (r *InstanceRepo) Insert(ctx context.Context, in Instance) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scheduled_instances (`+instanceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.insertArgs()...)
	if err != nil {
		return fmt.Errorf("instance insert: %w", err)
	}
	return nil
}

// InsertIgnore inserts in unless the owner already has a row with its id. It
// reports whether a row was written.
func (r *InstanceRepo) InsertIgnore(ctx context.Context, in Instance) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO scheduled_instances (`+instanceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.insertArgs()...)
	if err != nil {
		return false, fmt.Errorf("instance insert ignore: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("instance rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *InstanceRepo) Get(ctx context.Context, ownerKey, id string) (*Instance, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+instanceColumns+`
		FROM scheduled_instances
		WHERE owner_key = ? AND id = ?
	`, ownerKey, id)
	in, err := scanInstance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("instance get: %w", err)
	}
	return in, nil
}

// ListRange returns an owner's instances with start <= date <= end (YYYY-MM-DD).
func (r *InstanceRepo) ListRange(ctx context.Context, ownerKey, start, end string) ([]Instance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+instanceColumns+`
		FROM scheduled_instances
		WHERE owner_key = ? AND scheduled_date >= ? AND scheduled_date <= ?
		ORDER BY scheduled_date ASC, created_at ASC, id ASC
	`, ownerKey, start, end)
	if err != nil {
		return nil, fmt.Errorf("instance list: %w", err)
	}
	defer rows.Close()

	var out []Instance
	for rows.Next() {
		in, err := scanInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("instance scan: %w", err)
		}
		out = append(out, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("instance rows: %w", err)
	}
	return out, nil
}

// ListLinked returns an owner's instances whose id or parent_id is one of ids,
// whatever their date.
func (r *InstanceRepo) ListLinked(ctx context.Context, ownerKey string, ids []string) ([]Instance, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, 0, 2*len(ids)+1)
	args = append(args, ownerKey)
	for _, id := range ids {
		args = append(args, id)
	}
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+instanceColumns+`
		FROM scheduled_instances
		WHERE owner_key = ? AND (id IN (`+placeholders+`) OR parent_id IN (`+placeholders+`))
		ORDER BY scheduled_date ASC, id ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("instance list linked: %w", err)
	}
	defer rows.Close()

	var out []Instance
	for rows.Next() {
		in, err := scanInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("instance scan: %w", err)
		}
		out = append(out, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("instance rows: %w", err)
	}
	return out, nil
}

// Update rewrites the date, time and override columns of an instance.
func (r *InstanceRepo) Update(ctx context.Context, in Instance) error {
	args := []any{in.Date, in.Time}
	args = append(args, in.Overrides.args()...)
	args = append(args, in.OwnerKey, in.ID)
	_, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_instances
		SET scheduled_date = ?, scheduled_time = ?,
			title = ?, description = ?, duration = ?, icon = ?, points = ?, difficulty = ?, category = ?
		WHERE owner_key = ? AND id = ?
	`, args...)
	if err != nil {
		return fmt.Errorf("instance update: %w", err)
	}
	return nil
}

func (r *InstanceRepo) MarkCompleted(ctx context.Context, ownerKey, id string, completedAt time.Time, rating *int, notes *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_instances
		SET completed = 1, completed_at = ?, rating = COALESCE(?, rating), notes = COALESCE(?, notes)
		WHERE owner_key = ? AND id = ?
	`, completedAt, rating, notes, ownerKey, id)
	if err != nil {
		return fmt.Errorf("instance mark completed: %w", err)
	}
	return nil
}

func (r *InstanceRepo) ClearCompleted(ctx context.Context, ownerKey, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_instances SET completed = 0, completed_at = NULL
		WHERE owner_key = ? AND id = ?
	`, ownerKey, id)
	if err != nil {
		return fmt.Errorf("instance clear completed: %w", err)
	}
	return nil
}

// Delete removes an instance. It reports whether a row existed.
func (r *InstanceRepo) Delete(ctx context.Context, ownerKey, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_instances WHERE owner_key = ? AND id = ?`, ownerKey, id)
	if err != nil {
		return false, fmt.Errorf("instance delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("instance rows affected: %w", err)
	}
	return n > 0, nil
}

func scanInstance(row scanner) (*Instance, error) {
	var (
		in          Instance
		o           overrideDest
		completed   int
		completedAt sql.NullTime
		rating      sql.NullInt64
		notes       sql.NullString
		parentID    sql.NullString
	)
	dest := append([]any{&in.ID, &in.ActivityID, &in.OwnerKey, &in.Date, &in.Time}, o.targets()...)
	dest = append(dest, &completed, &completedAt, &rating, &notes, &parentID)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	in.Overrides = o.columns()
	in.Completed = completed != 0
	in.CompletedAt = nullTime(completedAt)
	in.Rating = nullInt(rating)
	in.Notes = nullString(notes)
	in.ParentID = nullString(parentID)
	return &in, nil
}
