package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/storage"
)

// templateFromRow converts a catalog row. A stored pattern that breaks the
// pattern invariant is an error; it is never guessed at.
func templateFromRow(a storage.Activity) (ActivityTemplate, error) {
	t := ActivityTemplate{
		ID:             a.ID,
		Title:          a.Title,
		Description:    a.Description,
		Duration:       a.Duration,
		Points:         a.Points,
		Difficulty:     Difficulty(a.Difficulty),
		Category:       Category(a.Category),
		Icon:           a.Icon,
		Attribute:      a.Attribute,
		RoleModel:      a.RoleModel,
		RoleModelColor: a.RoleModelColor,
		ScheduledTime:  a.ScheduledTime,
	}
	if a.Pattern == nil || *a.Pattern == "" {
		return t, nil
	}
	var raw RecurringPattern
	dec := json.NewDecoder(strings.NewReader(*a.Pattern))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return ActivityTemplate{}, fmt.Errorf("activity %s: decode pattern: %w", a.ID, err)
	}
	p, err := NewRecurringPattern(raw)
	if err != nil {
		return ActivityTemplate{}, fmt.Errorf("activity %s: %w", a.ID, err)
	}
	t.Pattern = p
	return t, nil
}

func rowFromTemplate(t ActivityTemplate, order int) (storage.Activity, error) {
	a := storage.Activity{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Duration:       t.Duration,
		Points:         t.Points,
		Difficulty:     int(t.Difficulty),
		Category:       string(t.Category),
		Icon:           t.Icon,
		Attribute:      t.Attribute,
		RoleModel:      t.RoleModel,
		RoleModelColor: t.RoleModelColor,
		ScheduledTime:  t.ScheduledTime,
		SortOrder:      order,
	}
	if t.Pattern != nil {
		data, err := json.Marshal(t.Pattern)
		if err != nil {
			return storage.Activity{}, fmt.Errorf("marshal pattern: %w", err)
		}
		s := string(data)
		a.Pattern = &s
	}
	return a, nil
}

func overridesFromColumns(c storage.OverrideColumns) Overrides {
	o := Overrides{
		Title:       FromPtr(c.Title),
		Description: FromPtr(c.Description),
		Duration:    FromPtr(c.Duration),
		Icon:        FromPtr(c.Icon),
		Points:      FromPtr(c.Points),
	}
	if c.Difficulty != nil {
		o.Difficulty = Some(Difficulty(*c.Difficulty))
	}
	if c.Category != nil {
		o.Category = Some(Category(*c.Category))
	}
	return o
}

func columnsFromOverrides(o Overrides) storage.OverrideColumns {
	c := storage.OverrideColumns{
		Title:       o.Title.Ptr(),
		Description: o.Description.Ptr(),
		Duration:    o.Duration.Ptr(),
		Icon:        o.Icon.Ptr(),
		Points:      o.Points.Ptr(),
	}
	if d, ok := o.Difficulty.Get(); ok {
		v := int(d)
		c.Difficulty = &v
	}
	if cat, ok := o.Category.Get(); ok {
		v := string(cat)
		c.Category = &v
	}
	return c
}

func instanceFromRow(in storage.Instance) ScheduledInstance {
	return ScheduledInstance{
		ID:          in.ID,
		ActivityID:  in.ActivityID,
		OwnerKey:    in.OwnerKey,
		Date:        in.Date,
		Time:        in.Time,
		Overrides:   overridesFromColumns(in.Overrides),
		Completed:   in.Completed,
		CompletedAt: in.CompletedAt,
		Rating:      in.Rating,
		Notes:       in.Notes,
		ParentID:    in.ParentID,
	}
}

func rowFromInstance(in ScheduledInstance) storage.Instance {
	return storage.Instance{
		ID:          in.ID,
		ActivityID:  in.ActivityID,
		OwnerKey:    in.OwnerKey,
		Date:        in.Date,
		Time:        in.Time,
		Overrides:   columnsFromOverrides(in.Overrides),
		Completed:   in.Completed,
		CompletedAt: in.CompletedAt,
		Rating:      in.Rating,
		Notes:       in.Notes,
		ParentID:    in.ParentID,
	}
}

func preferenceFromRow(p storage.Preference) Preference {
	return Preference{
		OwnerKey:   p.OwnerKey,
		ActivityID: p.ActivityID,
		Overrides:  overridesFromColumns(p.Overrides),
		Active:     p.Active,
		UpdatedAt:  p.UpdatedAt,
	}
}

func statsFromRow(s *storage.OwnerStats) CumulativeStats {
	if s == nil {
		return CumulativeStats{}
	}
	out := CumulativeStats{
		TotalActivitiesCompleted: s.TotalCompleted,
		TotalPoints:              s.TotalPoints,
		CurrentStreakDays:        s.CurrentStreak,
		LongestStreak:            s.LongestStreak,
	}
	if s.LastCompletedDate != nil {
		out.LastCompletedDate = *s.LastCompletedDate
	}
	return out
}

func applyStats(row *storage.OwnerStats, s CumulativeStats) {
	row.TotalCompleted = s.TotalActivitiesCompleted
	row.TotalPoints = s.TotalPoints
	row.CurrentStreak = s.CurrentStreakDays
	row.LongestStreak = s.LongestStreak
	row.LastCompletedDate = nil
	if s.LastCompletedDate != "" {
		v := s.LastCompletedDate
		row.LastCompletedDate = &v
	}
}
