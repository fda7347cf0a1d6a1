package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// weekConcurrency bounds the days assembled in parallel by Week.
const weekConcurrency = 4

// Day loads the owner's instances and preferences for date and assembles them.
// A nextCount of zero uses DefaultNextCount.
func (s *Service) Day(ctx context.Context, owner OwnerStrategy, date, now time.Time, nextCount int) (DailySchedule, error) {
	templates, err := s.Catalog(ctx)
	if err != nil {
		return DailySchedule{}, err
	}
	return s.assembleDay(ctx, owner, templates, date, now, nextCount)
}

func (s *Service) assembleDay(ctx context.Context, owner OwnerStrategy, templates []ActivityTemplate, date, now time.Time, nextCount int) (DailySchedule, error) {
	key := owner.OwnerKey()
	day := FormatDate(date)

	rows, err := s.instances.ListRange(ctx, key, day, day)
	if err != nil {
		return DailySchedule{}, err
	}

	// Occurrences of this day may have been moved elsewhere or replaced by an
	// edited copy; those rows live on other dates.
	var stubIDs []string
	for _, t := range templates {
		if t.Pattern == nil {
			continue
		}
		for _, stub := range Expand(t, t.Pattern, date, date) {
			stubIDs = append(stubIDs, stub.ID)
		}
	}
	linked, err := s.instances.ListLinked(ctx, key, stubIDs)
	if err != nil {
		return DailySchedule{}, err
	}

	seen := make(map[string]bool, len(rows)+len(linked))
	instances := make([]ScheduledInstance, 0, len(rows)+len(linked))
	for _, r := range append(rows, linked...) {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		instances = append(instances, instanceFromRow(r))
	}

	prefRows, err := s.preferences.ListActive(ctx, key)
	if err != nil {
		return DailySchedule{}, err
	}
	prefs := make([]Preference, len(prefRows))
	for i, p := range prefRows {
		prefs[i] = preferenceFromRow(p)
	}

	out := Assemble(AssembleInput{
		Date:        date,
		Templates:   templates,
		Instances:   instances,
		Preferences: prefs,
		Owner:       owner,
		Now:         now,
		NextCount:   nextCount,
	})
	if len(out.Unresolved) > 0 {
		s.log.Warn("instances reference unknown activities",
			zap.String("owner", key),
			zap.String("date", day),
			zap.Strings("instances", out.Unresolved),
		)
	}
	return out, nil
}

// Week assembles days consecutive days starting at start.
func (s *Service) Week(ctx context.Context, owner OwnerStrategy, start time.Time, days int, now time.Time) ([]DailySchedule, error) {
	if days <= 0 {
		days = 7
	}
	templates, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]DailySchedule, days)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(weekConcurrency)
	for i := 0; i < days; i++ {
		i := i
		date := startOfDay(start).AddDate(0, 0, i)
		g.Go(func() error {
			sched, err := s.assembleDay(gctx, owner, templates, date, now, 0)
			if err != nil {
				return err
			}
			out[i] = sched
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// State assembles date and synthesizes the owner's character state from it.
func (s *Service) State(ctx context.Context, owner OwnerStrategy, date, now time.Time, weights []WeightedAttribute) (LightwalkerState, DailySchedule, error) {
	sched, err := s.Day(ctx, owner, date, now, 0)
	if err != nil {
		return LightwalkerState{}, DailySchedule{}, err
	}
	stats, err := s.Stats(ctx, owner)
	if err != nil {
		return LightwalkerState{}, DailySchedule{}, err
	}
	return Synthesize(sched, stats, weights), sched, nil
}
