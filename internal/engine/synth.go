package engine

import (
	"sort"
	"strings"
)

const (
	// AttributeInclusionThreshold is the weight an attribute must exceed to be active.
	AttributeInclusionThreshold = 0.25

	// EnergeticStreakDays is the day streak that makes the mood energetic.
	EnergeticStreakDays = 3
)

// MoodPriority is the order moods are tested in; the first that applies wins.
var MoodPriority = []Mood{MoodDetermined, MoodCalm, MoodFocused, MoodEnergetic, MoodReflective}

// Synthesize derives the character state from one day's schedule, the owner's
// running counters and the selected weighted attributes. Streaks are taken
// from stats as-is.
func Synthesize(schedule DailySchedule, stats CumulativeStats, weights []WeightedAttribute) LightwalkerState {
	active := activeAttributes(weights)
	return LightwalkerState{
		Level:              LevelForCompletions(stats.TotalActivitiesCompleted),
		TotalPoints:        stats.TotalPoints,
		CurrentStreakDays:  stats.CurrentStreakDays,
		LongestStreak:      stats.LongestStreak,
		CurrentMood:        moodFor(schedule, stats),
		ActiveAttributes:   active,
		GlowingAttributes:  glowing(active, schedule.Current),
		DominantRoleModels: dominantRoleModels(weights),
	}
}

func moodFor(schedule DailySchedule, stats CumulativeStats) Mood {
	applies := map[Mood]bool{
		MoodDetermined: justCompletedHard(schedule),
		MoodCalm:       schedule.CompletedCount == 0,
		MoodFocused:    schedule.Current != nil,
		MoodEnergetic:  stats.CurrentStreakDays >= EnergeticStreakDays,
		MoodReflective: true,
	}
	for _, m := range MoodPriority {
		if applies[m] {
			return m
		}
	}
	return MoodReflective
}

// justCompletedHard reports whether the most recent completion of the day was
// a high-difficulty activity. Completions without a timestamp rank by position.
func justCompletedHard(schedule DailySchedule) bool {
	var last *ActivityView
	for i := range schedule.Activities {
		a := &schedule.Activities[i]
		if !a.Completed {
			continue
		}
		switch {
		case last == nil:
			last = a
		case a.CompletedAt == nil:
			if last.CompletedAt == nil {
				last = a
			}
		case last.CompletedAt == nil || !a.CompletedAt.Before(*last.CompletedAt):
			last = a
		}
	}
	return last != nil && last.Difficulty >= DifficultyHigh
}

func activeAttributes(weights []WeightedAttribute) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range weights {
		name := strings.TrimSpace(w.Attribute)
		if name == "" || w.Weight <= AttributeInclusionThreshold || seen[normalizeName(name)] {
			continue
		}
		seen[normalizeName(name)] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func glowing(active []string, current *ActivityView) []string {
	if current == nil || strings.TrimSpace(current.Attribute) == "" {
		return nil
	}
	want := normalizeName(current.Attribute)
	var out []string
	for _, a := range active {
		if normalizeName(a) == want {
			out = append(out, a)
		}
	}
	return out
}

// dominantRoleModels ranks role models by summed weight, descending, ties by
// name, with influence relative to the heaviest.
func dominantRoleModels(weights []WeightedAttribute) []RoleModelInfluence {
	sums := map[string]float64{}
	var order []string
	for _, w := range weights {
		name := strings.TrimSpace(w.RoleModel)
		if name == "" {
			continue
		}
		if _, ok := sums[name]; !ok {
			order = append(order, name)
		}
		sums[name] += w.Weight
	}
	if len(order) == 0 {
		return nil
	}

	out := make([]RoleModelInfluence, 0, len(order))
	maxWeight := 0.0
	for _, name := range order {
		out = append(out, RoleModelInfluence{Name: name, Weight: sums[name]})
		if sums[name] > maxWeight {
			maxWeight = sums[name]
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Name < out[j].Name
	})
	for i := range out {
		if maxWeight > 0 && out[i].Weight > 0 {
			out[i].Influence = out[i].Weight / maxWeight
		}
	}
	return out
}
