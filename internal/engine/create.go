package engine

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/storage"
)

type ScheduleInput struct {
	ActivityID string
	Date       time.Time
	// Time is HH:MM. Empty falls back to the template's default time; a
	// template without one yields an unscheduled instance.
	Time      string
	Overrides Overrides
}

// ScheduleActivity places an activity on a date outside of any recurrence.
func (s *Service) ScheduleActivity(ctx context.Context, owner OwnerStrategy, in ScheduleInput) (*ScheduledInstance, error) {
	activityID, err := normalizeID("activity", in.ActivityID)
	if err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, ValidationError{Field: "date", Value: in.Date}
	}
	if err := validateOverrides(in.Overrides); err != nil {
		return nil, err
	}

	t, err := s.activity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	clock := strings.TrimSpace(in.Time)
	if clock == "" {
		clock = t.ScheduledTime
	}
	if clock != "" {
		if clock, err = NormalizeClock(clock); err != nil {
			return nil, err
		}
	}

	inst := ScheduledInstance{
		ID:         uuid.NewString(),
		ActivityID: t.ID,
		OwnerKey:   owner.OwnerKey(),
		Date:       FormatDate(in.Date),
		Time:       clock,
		Overrides:  in.Overrides,
	}
	if err := s.instances.Insert(ctx, rowFromInstance(inst)); err != nil {
		return nil, err
	}
	s.log.Info("activity scheduled",
		zap.String("owner", inst.OwnerKey),
		zap.String("activity", inst.ActivityID),
		zap.String("instance", inst.ID),
		zap.String("date", inst.Date),
		zap.String("time", inst.Time),
	)
	return &inst, nil
}

// Materialize stores every recurring occurrence between start and end that
// the owner does not have yet. Occurrences already replaced by an edited or
// moved instance are skipped. It returns the number of rows inserted.
func (s *Service) Materialize(ctx context.Context, owner OwnerStrategy, start, end time.Time) (int, error) {
	templates, err := s.Catalog(ctx)
	if err != nil {
		return 0, err
	}

	var stubs []ScheduledInstance
	for _, t := range templates {
		if t.Pattern == nil {
			continue
		}
		for _, stub := range Expand(t, t.Pattern, start, end) {
			stub.ID = DayOccurrenceID(t.ID, stub.Date)
			stubs = append(stubs, stub)
		}
	}
	if len(stubs) == 0 {
		return 0, nil
	}

	key := owner.OwnerKey()
	inserted := 0
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := storage.NewInstanceRepo(tx)
		ids := make([]string, len(stubs))
		for i, stub := range stubs {
			ids[i] = stub.ID
		}
		linked, err := repo.ListLinked(ctx, key, ids)
		if err != nil {
			return err
		}
		replaced := map[string]bool{}
		for _, l := range linked {
			if l.ParentID != nil {
				replaced[*l.ParentID] = true
			}
		}

		for _, stub := range stubs {
			if replaced[stub.ID] {
				continue
			}
			stub.OwnerKey = key
			ok, err := repo.InsertIgnore(ctx, rowFromInstance(stub))
			if err != nil {
				return err
			}
			if ok {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("occurrences materialized",
		zap.String("owner", key),
		zap.String("start", FormatDate(start)),
		zap.String("end", FormatDate(end)),
		zap.Int("inserted", inserted),
	)
	return inserted, nil
}

func validateOverrides(o Overrides) error {
	if v, ok := o.Title.Get(); ok && strings.TrimSpace(v) == "" {
		return ValidationError{Field: "title", Value: v}
	}
	if v, ok := o.Points.Get(); ok && v < 0 {
		return ValidationError{Field: "points", Value: v}
	}
	if v, ok := o.Difficulty.Get(); ok && !v.IsValid() {
		return ValidationError{Field: "difficulty", Value: int(v)}
	}
	if v, ok := o.Category.Get(); ok && !v.IsValid() {
		return ValidationError{Field: "category", Value: string(v)}
	}
	return nil
}
