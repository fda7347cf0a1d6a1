package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/storage"
)

var (
	ErrAlreadyCompleted = errors.New("already completed")
	ErrNotCompleted     = errors.New("not completed")
)

const (
	MinRating = 1
	MaxRating = 5
)

type CompleteInput struct {
	InstanceID string
	// Date locates an expanded occurrence that has not been stored yet.
	// Zero means the day of At.
	Date   time.Time
	At     time.Time
	Rating *int
	Notes  *string
}

type CompleteResult struct {
	InstanceID    string
	ActivityID    string
	PointsAwarded int
	LevelBefore   int
	LevelAfter    int
	LevelUp       bool
	Stats         CumulativeStats
}

// RecordCompletion applies one completion on day `on` to the running counters.
// A completion on the day of the last one keeps the streak, on the following
// day extends it, and otherwise starts a new streak of one.
func RecordCompletion(stats CumulativeStats, on string, points int) CumulativeStats {
	stats.TotalActivitiesCompleted++
	stats.TotalPoints += points

	switch {
	case stats.LastCompletedDate == on:
		if stats.CurrentStreakDays < 1 {
			stats.CurrentStreakDays = 1
		}
	case stats.LastCompletedDate > on && stats.LastCompletedDate != "":
		// Backdated completion; the streak only moves forward.
		return stats
	case isNextDay(stats.LastCompletedDate, on):
		stats.CurrentStreakDays++
	default:
		stats.CurrentStreakDays = 1
	}
	stats.LastCompletedDate = on
	if stats.CurrentStreakDays > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreakDays
	}
	return stats
}

// RevertCompletion removes one completion worth points from the counters.
// Streaks are left alone.
func RevertCompletion(stats CumulativeStats, points int) CumulativeStats {
	stats.TotalActivitiesCompleted = max(stats.TotalActivitiesCompleted-1, 0)
	stats.TotalPoints = max(stats.TotalPoints-points, 0)
	return stats
}

func isNextDay(prev, on string) bool {
	if prev == "" {
		return false
	}
	a, err := ParseDate(prev)
	if err != nil {
		return false
	}
	b, err := ParseDate(on)
	if err != nil {
		return false
	}
	return FormatDate(a.AddDate(0, 0, 1)) == FormatDate(b)
}

// Complete marks an instance done and credits the owner. An expanded
// occurrence is stored under its occurrence id first.
func (s *Service) Complete(ctx context.Context, owner OwnerStrategy, in CompleteInput) (*CompleteResult, error) {
	id, err := normalizeID("instance", in.InstanceID)
	if err != nil {
		return nil, err
	}
	if in.Rating != nil && (*in.Rating < MinRating || *in.Rating > MaxRating) {
		return nil, ValidationError{Field: "rating", Value: *in.Rating}
	}
	at := in.At
	if at.IsZero() {
		at = s.clock()
	}
	date := in.Date
	if date.IsZero() {
		date = at
	}

	key := owner.OwnerKey()
	inst, stored, err := s.locate(ctx, owner, id, date, at)
	if err != nil {
		return nil, err
	}

	var res CompleteResult
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		instances := storage.NewInstanceRepo(tx)
		if stored {
			row, err := instances.Get(ctx, key, id)
			if err != nil {
				return err
			}
			if row == nil {
				return NotFoundError{Kind: "instance", ID: id}
			}
			inst = instanceFromRow(*row)
		} else {
			inst.OwnerKey = key
			ok, err := instances.InsertIgnore(ctx, rowFromInstance(inst))
			if err != nil {
				return err
			}
			if !ok {
				row, err := instances.Get(ctx, key, id)
				if err != nil {
					return err
				}
				if row == nil {
					return NotFoundError{Kind: "instance", ID: id}
				}
				inst = instanceFromRow(*row)
			}
		}
		if inst.Completed {
			return fmt.Errorf("instance %s: %w", id, ErrAlreadyCompleted)
		}

		actRow, err := storage.NewActivityRepo(tx).Get(ctx, inst.ActivityID)
		if err != nil {
			return err
		}
		if actRow == nil {
			return NotFoundError{Kind: "activity", ID: inst.ActivityID}
		}
		t, err := templateFromRow(*actRow)
		if err != nil {
			return err
		}
		pref, err := storage.NewPreferenceRepo(tx).GetActive(ctx, key, t.ID)
		if err != nil {
			return err
		}
		var prefOverrides Overrides
		if pref != nil {
			prefOverrides = overridesFromColumns(pref.Overrides)
		}
		points := Resolve(t, prefOverrides, inst.Overrides).Points

		if err := instances.MarkCompleted(ctx, key, id, at, in.Rating, in.Notes); err != nil {
			return err
		}

		statsRepo := storage.NewStatsRepo(tx)
		row, err := statsRepo.GetOrCreate(ctx, key)
		if err != nil {
			return err
		}
		before := statsFromRow(row)
		after := RecordCompletion(before, FormatDate(at), points)
		applyStats(row, after)
		if err := statsRepo.Update(ctx, row); err != nil {
			return err
		}
		if _, err := storage.NewCompletionRepo(tx).Insert(ctx, id, key, at, points); err != nil {
			return err
		}

		res = CompleteResult{
			InstanceID:    id,
			ActivityID:    t.ID,
			PointsAwarded: points,
			LevelBefore:   LevelForCompletions(before.TotalActivitiesCompleted),
			LevelAfter:    LevelForCompletions(after.TotalActivitiesCompleted),
			Stats:         after,
		}
		res.LevelUp = res.LevelAfter > res.LevelBefore
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("activity completed",
		zap.String("owner", key),
		zap.String("instance", res.InstanceID),
		zap.String("activity", res.ActivityID),
		zap.Int("points", res.PointsAwarded),
		zap.Int("streak", res.Stats.CurrentStreakDays),
		zap.Bool("level_up", res.LevelUp),
	)
	return &res, nil
}

// locate finds a stored instance by id, or else the expanded occurrence with
// that id. An occurrence id carries its own date, which wins over date.
func (s *Service) locate(ctx context.Context, owner OwnerStrategy, id string, date, now time.Time) (ScheduledInstance, bool, error) {
	row, err := s.instances.Get(ctx, owner.OwnerKey(), id)
	if err != nil {
		return ScheduledInstance{}, false, err
	}
	if row != nil {
		return instanceFromRow(*row), true, nil
	}

	if _, d, err := splitOccurrenceID(id); err == nil {
		if od, err := time.ParseInLocation(DateLayout, d, date.Location()); err == nil {
			date = od
		}
	}

	sched, err := s.Day(ctx, owner, date, now, 0)
	if err != nil {
		return ScheduledInstance{}, false, err
	}
	for _, v := range sched.Activities {
		if v.ID != id {
			continue
		}
		return ScheduledInstance{
			ID:         v.ID,
			ActivityID: v.ActivityID,
			OwnerKey:   owner.OwnerKey(),
			Date:       v.Date,
			Time:       v.Time,
		}, false, nil
	}
	return ScheduledInstance{}, false, NotFoundError{Kind: "instance", ID: id}
}

type UncompleteResult struct {
	InstanceID     string
	PointsDeducted int
	Stats          CumulativeStats
}

// Uncomplete clears the completion of a stored instance and deducts what the
// last completion awarded.
func (s *Service) Uncomplete(ctx context.Context, owner OwnerStrategy, instanceID string) (*UncompleteResult, error) {
	id, err := normalizeID("instance", instanceID)
	if err != nil {
		return nil, err
	}
	key := owner.OwnerKey()

	var res UncompleteResult
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		instances := storage.NewInstanceRepo(tx)
		row, err := instances.Get(ctx, key, id)
		if err != nil {
			return err
		}
		if row == nil {
			return NotFoundError{Kind: "instance", ID: id}
		}
		if !row.Completed {
			return fmt.Errorf("instance %s: %w", id, ErrNotCompleted)
		}
		if err := instances.ClearCompleted(ctx, key, id); err != nil {
			return err
		}

		completions := storage.NewCompletionRepo(tx)
		last, err := completions.Last(ctx, key, id)
		if err != nil {
			return err
		}
		points := 0
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
		after := RevertCompletion(statsFromRow(stats), points)
		applyStats(stats, after)
		if err := statsRepo.Update(ctx, stats); err != nil {
			return err
		}
		res = UncompleteResult{InstanceID: id, PointsDeducted: points, Stats: after}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("completion undone",
		zap.String("owner", key),
		zap.String("instance", id),
		zap.Int("points", res.PointsDeducted),
	)
	return &res, nil
}
