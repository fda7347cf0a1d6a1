package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type StatsRepo struct {
	db DBTX
}

func NewStatsRepo(db DBTX) *StatsRepo {
	return &StatsRepo{db: db}
}

func (r *StatsRepo) Get(ctx context.Context, ownerKey string) (*OwnerStats, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT owner_key, total_completed, total_points, current_streak, longest_streak, last_completed_date
		FROM owner_stats WHERE owner_key = ?
	`, ownerKey)

	var (
		s    OwnerStats
		last sql.NullString
	)
	if err := row.Scan(&s.OwnerKey, &s.TotalCompleted, &s.TotalPoints, &s.CurrentStreak, &s.LongestStreak, &last); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("stats get: %w", err)
	}
	s.LastCompletedDate = nullString(last)
	return &s, nil
}

func (r *StatsRepo) GetOrCreate(ctx context.Context, ownerKey string) (*OwnerStats, error) {
	s, err := r.Get(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}

	if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO owner_stats (owner_key) VALUES (?)`, ownerKey); err != nil {
		return nil, fmt.Errorf("stats insert: %w", err)
	}
	return r.Get(ctx, ownerKey)
}

func (r *StatsRepo) Update(ctx context.Context, s *OwnerStats) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE owner_stats
		SET total_completed = ?, total_points = ?, current_streak = ?, longest_streak = ?, last_completed_date = ?
		WHERE owner_key = ?
	`, s.TotalCompleted, s.TotalPoints, s.CurrentStreak, s.LongestStreak, s.LastCompletedDate, s.OwnerKey)
	if err != nil {
		return fmt.Errorf("stats update: %w", err)
	}
	return nil
}
