package engine

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/storage"
)

// Service loads core inputs from storage, runs the pure core over them and
// persists the outcome of user actions.
type Service struct {
	db          *sql.DB
	log         *zap.Logger
	clock       func() time.Time
	activities  *storage.ActivityRepo
	preferences *storage.PreferenceRepo
	instances   *storage.InstanceRepo
	stats       *storage.StatsRepo
	completions *storage.CompletionRepo
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now for bookkeeping timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewService(db *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:          db,
		log:         zap.NewNop(),
		clock:       time.Now,
		activities:  storage.NewActivityRepo(db),
		preferences: storage.NewPreferenceRepo(db),
		instances:   storage.NewInstanceRepo(db),
		stats:       storage.NewStatsRepo(db),
		completions: storage.NewCompletionRepo(db),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ActivityRepo() *storage.ActivityRepo     { return s.activities }
func (s *Service) PreferenceRepo() *storage.PreferenceRepo { return s.preferences }
func (s *Service) InstanceRepo() *storage.InstanceRepo     { return s.instances }
func (s *Service) StatsRepo() *storage.StatsRepo           { return s.stats }
func (s *Service) CompletionRepo() *storage.CompletionRepo { return s.completions }

func normalizeID(kind, id string) (string, error) {
	v := strings.TrimSpace(id)
	if v == "" {
		return "", errors.New(kind + " id is required")
	}
	return v, nil
}

// Catalog returns every activity template in seeded order.
func (s *Service) Catalog(ctx context.Context) ([]ActivityTemplate, error) {
	rows, err := s.activities.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ActivityTemplate, 0, len(rows))
	for _, r := range rows {
		t, err := templateFromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Service) activity(ctx context.Context, id string) (ActivityTemplate, error) {
	row, err := s.activities.Get(ctx, id)
	if err != nil {
		return ActivityTemplate{}, err
	}
	if row == nil {
		return ActivityTemplate{}, NotFoundError{Kind: "activity", ID: id}
	}
	return templateFromRow(*row)
}

// Stats returns the owner's running counters.
func (s *Service) Stats(ctx context.Context, owner OwnerStrategy) (CumulativeStats, error) {
	row, err := s.stats.Get(ctx, owner.OwnerKey())
	if err != nil {
		return CumulativeStats{}, err
	}
	return statsFromRow(row), nil
}

// CompletedSince counts the owner's completions at or after since.
func (s *Service) CompletedSince(ctx context.Context, owner OwnerStrategy, since time.Time) (int, error) {
	return s.completions.CountSince(ctx, owner.OwnerKey(), since)
}

// Customizations returns the owner's active preferences.
func (s *Service) Customizations(ctx context.Context, owner OwnerStrategy) ([]Preference, error) {
	rows, err := s.preferences.ListActive(ctx, owner.OwnerKey())
	if err != nil {
		return nil, err
	}
	out := make([]Preference, len(rows))
	for i, r := range rows {
		out[i] = preferenceFromRow(r)
	}
	return out, nil
}
