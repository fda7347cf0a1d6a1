package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/storage"
)

// ErrRecurringOccurrence is returned when removing an occurrence of a
// template's pattern rather than an instance placed or edited by the user.
var ErrRecurringOccurrence = errors.New("occurrence comes from a recurring pattern")

type RescheduleInput struct {
	InstanceID string
	// From is the date the instance is shown on; used to find an occurrence
	// that has not been stored yet.
	From time.Time
	Date time.Time
	// Time is HH:MM; empty keeps the current time.
	Time string
}

// Reschedule moves an instance to another date or time. A stored instance is
// moved in place; an expanded occurrence is replaced by a copy that points
// back at it, so removing the copy brings the occurrence back.
func (s *Service) Reschedule(ctx context.Context, owner OwnerStrategy, in RescheduleInput) (*ScheduledInstance, error) {
	id, err := normalizeID("instance", in.InstanceID)
	if err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, ValidationError{Field: "date", Value: in.Date}
	}
	now := s.clock()
	from := in.From
	if from.IsZero() {
		from = now
	}

	inst, stored, err := s.locate(ctx, owner, id, from, now)
	if err != nil {
		return nil, err
	}
	prevDate, prevTime := inst.Date, inst.Time

	inst.Date = FormatDate(in.Date)
	if strings.TrimSpace(in.Time) != "" {
		if inst.Time, err = NormalizeClock(in.Time); err != nil {
			return nil, err
		}
	}

	if stored {
		err = s.instances.Update(ctx, rowFromInstance(inst))
	} else {
		inst = detach(inst)
		err = s.instances.Insert(ctx, rowFromInstance(inst))
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("instance rescheduled",
		zap.String("owner", inst.OwnerKey),
		zap.String("instance", inst.ID),
		zap.String("from", prevDate+" "+prevTime),
		zap.String("to", inst.Date+" "+inst.Time),
	)
	return &inst, nil
}

type EditInput struct {
	InstanceID string
	Date       time.Time
	Overrides  Overrides
}

// EditInstance layers per-instance overrides onto one instance. Fields left
// unset in Overrides keep their current instance value.
func (s *Service) EditInstance(ctx context.Context, owner OwnerStrategy, in EditInput) (*ScheduledInstance, error) {
	id, err := normalizeID("instance", in.InstanceID)
	if err != nil {
		return nil, err
	}
	if in.Overrides.IsEmpty() {
		return nil, ValidationError{Field: "overrides", Value: "none"}
	}
	if err := validateOverrides(in.Overrides); err != nil {
		return nil, err
	}
	now := s.clock()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	inst, stored, err := s.locate(ctx, owner, id, date, now)
	if err != nil {
		return nil, err
	}
	inst.Overrides = inst.Overrides.Merge(in.Overrides)
	if stored {
		err = s.instances.Update(ctx, rowFromInstance(inst))
	} else {
		inst = detach(inst)
		err = s.instances.Insert(ctx, rowFromInstance(inst))
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("instance edited",
		zap.String("owner", inst.OwnerKey),
		zap.String("instance", inst.ID),
		zap.Bool("detached", !stored),
	)
	return &inst, nil
}

// detach turns an expanded occurrence into a new instance that replaces it.
func detach(inst ScheduledInstance) ScheduledInstance {
	parent := inst.ID
	inst.ID = uuid.NewString()
	inst.ParentID = &parent
	return inst
}

// RemoveInstance deletes a stored instance. Removing the edited copy of a
// recurring occurrence discards the edit. Occurrences of a recurring pattern,
// stored or not, cannot be removed since expansion would bring them back.
// Removing a completed instance takes back what its completion awarded.
func (s *Service) RemoveInstance(ctx context.Context, owner OwnerStrategy, instanceID string) error {
	id, err := normalizeID("instance", instanceID)
	if err != nil {
		return err
	}
	key := owner.OwnerKey()
	_, _, occErr := splitOccurrenceID(id)
	isOccurrence := occErr == nil

	points := 0
	reverted := false
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		instances := storage.NewInstanceRepo(tx)
		row, err := instances.Get(ctx, key, id)
		if err != nil {
			return err
		}
		if row == nil {
			if isOccurrence {
				return fmt.Errorf("instance %s: %w", id, ErrRecurringOccurrence)
			}
			return NotFoundError{Kind: "instance", ID: id}
		}
		if isOccurrence && row.ParentID == nil {
			return fmt.Errorf("instance %s: %w", id, ErrRecurringOccurrence)
		}

		if row.Completed {
			completions := storage.NewCompletionRepo(tx)
			last, err := completions.Last(ctx, key, id)
			if err != nil {
				return err
			}
			if last != nil {
				points = last.PointsAwarded
				if err := completions.Delete(ctx, last.ID); err != nil {
					return err
				}
			}
			statsRepo := storage.NewStatsRepo(tx)
			stats, err := statsRepo.GetOrCreate(ctx, key)
			if err != nil {
				return err
			}
			applyStats(stats, RevertCompletion(statsFromRow(stats), points))
			if err := statsRepo.Update(ctx, stats); err != nil {
				return err
			}
			reverted = true
		}

		ok, err := instances.Delete(ctx, key, id)
		if err != nil {
			return err
		}
		if !ok {
			return NotFoundError{Kind: "instance", ID: id}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("instance removed",
		zap.String("owner", key),
		zap.String("instance", id),
		zap.Bool("reverted", reverted),
		zap.Int("points_deducted", points),
	)
	return nil
}

// splitOccurrenceID recovers the template id and date of an id built by
// OccurrenceID.
func splitOccurrenceID(id string) (string, string, error) {
	i := strings.LastIndexByte(id, '_')
	if i <= 0 || !digits(id[i+1:]) || i+1 == len(id) {
		return "", "", ValidationError{Field: "occurrence id", Value: id}
	}
	rest := id[:i]
	j := strings.LastIndexByte(rest, '_')
	if j <= 0 {
		return "", "", ValidationError{Field: "occurrence id", Value: id}
	}
	if _, err := ParseDate(rest[j+1:]); err != nil {
		return "", "", ValidationError{Field: "occurrence id", Value: id}
	}
	return rest[:j], rest[j+1:], nil
}

// Customize merges overrides into the owner's active preference for an
// activity, creating it when missing. Fields not set in overrides keep their
// stored value.
func (s *Service) Customize(ctx context.Context, owner OwnerStrategy, activityID string, overrides Overrides) (*Preference, error) {
	id, err := normalizeID("activity", activityID)
	if err != nil {
		return nil, err
	}
	if overrides.IsEmpty() {
		return nil, ValidationError{Field: "overrides", Value: "none"}
	}
	if err := validateOverrides(overrides); err != nil {
		return nil, err
	}
	if _, err := s.activity(ctx, id); err != nil {
		return nil, err
	}

	key := owner.OwnerKey()
	now := s.clock()
	var out Preference
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := storage.NewPreferenceRepo(tx)
		row, err := repo.GetActive(ctx, key, id)
		if err != nil {
			return err
		}
		if row == nil {
			row = &storage.Preference{OwnerKey: key, ActivityID: id}
		}
		merged := overridesFromColumns(row.Overrides).Merge(overrides)
		row.Overrides = columnsFromOverrides(merged)
		if err := repo.Save(ctx, row, now); err != nil {
			return err
		}
		out = preferenceFromRow(*row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("activity customized", zap.String("owner", key), zap.String("activity", id))
	return &out, nil
}

// ResetCustomization deactivates the owner's preference for an activity. It
// reports whether there was one.
func (s *Service) ResetCustomization(ctx context.Context, owner OwnerStrategy, activityID string) (bool, error) {
	id, err := normalizeID("activity", activityID)
	if err != nil {
		return false, err
	}
	key := owner.OwnerKey()
	ok, err := s.preferences.Deactivate(ctx, key, id, s.clock())
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Info("customization reset", zap.String("owner", key), zap.String("activity", id))
	}
	return ok, nil
}
