package engine

import (
	"sort"
	"time"
)

const (
	// CurrentWindow is how far either side of now an activity counts as current.
	CurrentWindow = 30 * time.Minute

	DefaultNextCount = 3
)

type AssembleInput struct {
	Date      time.Time
	Templates []ActivityTemplate
	// Instances already materialized. Entries for other dates are not shown
	// but still hide the expanded occurrence they replaced.
	Instances   []ScheduledInstance
	Preferences []Preference
	Owner       OwnerStrategy
	Now         time.Time
	// NextCount limits DailySchedule.Next; zero means DefaultNextCount.
	NextCount int
}

type slot struct {
	inst    ScheduledInstance
	tplIdx  int
	seq     int
	minutes int
	timed   bool
}

// Assemble builds the DailySchedule of in.Date. It never fails: instances with
// malformed times are treated as unscheduled and sort last.
func Assemble(in AssembleInput) DailySchedule {
	day := startOfDay(in.Date)
	date := FormatDate(day)
	nextCount := in.NextCount
	if nextCount <= 0 {
		nextCount = DefaultNextCount
	}

	tplIdx := make(map[string]int, len(in.Templates))
	for i, t := range in.Templates {
		if _, dup := tplIdx[t.ID]; !dup {
			tplIdx[t.ID] = i
		}
	}

	// Stored instances win over expanded stubs with the same id, and over a
	// stub they were split from via ParentID, whatever date they now sit on.
	stored := map[string]bool{}
	for _, inst := range in.Instances {
		stored[inst.ID] = true
		if inst.ParentID != nil {
			stored[*inst.ParentID] = true
		}
	}

	var slots []slot
	var unresolved []string
	for i, t := range in.Templates {
		if t.Pattern == nil {
			continue
		}
		for _, stub := range Expand(t, t.Pattern, day, day) {
			if stored[stub.ID] {
				continue
			}
			slots = append(slots, slot{inst: stub, tplIdx: i})
		}
	}
	for _, inst := range in.Instances {
		if inst.Date != date {
			continue
		}
		i, ok := tplIdx[inst.ActivityID]
		if !ok {
			unresolved = append(unresolved, inst.ID)
			continue
		}
		slots = append(slots, slot{inst: inst, tplIdx: i})
	}
	for i := range slots {
		slots[i].seq = i
		slots[i].minutes, slots[i].timed = ParseClock(slots[i].inst.Time)
	}

	sort.SliceStable(slots, func(a, b int) bool {
		sa, sb := slots[a], slots[b]
		if sa.timed != sb.timed {
			return sa.timed
		}
		if sa.timed && sa.minutes != sb.minutes {
			return sa.minutes < sb.minutes
		}
		if sa.tplIdx != sb.tplIdx {
			return sa.tplIdx < sb.tplIdx
		}
		return sa.seq < sb.seq
	})

	prefs := NewPreferenceIndex(in.Owner, in.Preferences)
	out := DailySchedule{Date: date, Unresolved: unresolved}
	out.Activities = make([]ActivityView, 0, len(slots))
	for _, s := range slots {
		t := in.Templates[s.tplIdx]
		view := newView(t, s.inst, Resolve(t, prefs.Lookup(t.ID), s.inst.Overrides))
		out.Activities = append(out.Activities, view)
		if view.Completed {
			out.CompletedCount++
			out.TotalPoints += view.Points
		}
	}
	if n := len(out.Activities); n > 0 {
		out.CompletionPercentage = float64(out.CompletedCount) / float64(n) * 100
	}

	for i, s := range slots {
		if !s.timed || out.Activities[i].Completed {
			continue
		}
		at := time.Date(day.Year(), day.Month(), day.Day(), s.minutes/60, s.minutes%60, 0, 0, in.Now.Location())
		delta := at.Sub(in.Now)
		if out.Current == nil && delta >= -CurrentWindow && delta <= CurrentWindow {
			cur := out.Activities[i]
			out.Current = &cur
		}
		if delta > 0 && len(out.Next) < nextCount {
			out.Next = append(out.Next, out.Activities[i])
		}
	}
	return out
}

func newView(t ActivityTemplate, inst ScheduledInstance, r Resolution) ActivityView {
	return ActivityView{
		ID:             inst.ID,
		ActivityID:     t.ID,
		Date:           inst.Date,
		Time:           inst.Time,
		Fields:         r.Fields,
		CustomCategory: r.CustomCategory,
		Attribute:      t.Attribute,
		RoleModel:      t.RoleModel,
		RoleModelColor: t.RoleModelColor,
		Completed:      inst.Completed,
		CompletedAt:    inst.CompletedAt,
		Rating:         inst.Rating,
		Notes:          inst.Notes,
		ParentID:       inst.ParentID,
	}
}
