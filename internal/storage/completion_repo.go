package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type CompletionRepo struct {
	db DBTX
}

func NewCompletionRepo(db DBTX) *CompletionRepo {
	return &CompletionRepo{db: db}
}

func (r *CompletionRepo) Insert(ctx context.Context, instanceID, ownerKey string, completedAt time.Time, points int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO completions (instance_id, owner_key, completed_at, points_awarded)
		VALUES (?, ?, ?, ?)
	`, instanceID, ownerKey, completedAt, points)
	if err != nil {
		return 0, fmt.Errorf("completion insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("completion last insert id: %w", err)
	}
	return id, nil
}

// CountSince counts an owner's completions at or after since.
func (r *CompletionRepo) CountSince(ctx context.Context, ownerKey string, since time.Time) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM completions
		WHERE owner_key = ? AND completed_at >= ?
	`, ownerKey, since)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("completion count: %w", err)
	}
	return n, nil
}

// Last returns the most recent completion of an owner's instance, or nil.
func (r *CompletionRepo) Last(ctx context.Context, ownerKey, instanceID string) (*Completion, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, instance_id, owner_key, completed_at, points_awarded
		FROM completions
		WHERE owner_key = ? AND instance_id = ?
		ORDER BY completed_at DESC, id DESC
		LIMIT 1
	`, ownerKey, instanceID)
	var c Completion
	if err := row.Scan(&c.ID, &c.InstanceID, &c.OwnerKey, &c.CompletedAt, &c.PointsAwarded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("completion last: %w", err)
	}
	return &c, nil
}

func (r *CompletionRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM completions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("completion delete: %w", err)
	}
	return nil
}
