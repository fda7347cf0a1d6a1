package engine

// Milestone is a badge earned from the running counters.
type Milestone struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Earned      bool
}

// Milestones returns every milestone with its earned status.
func Milestones(stats CumulativeStats) []Milestone {
	level := LevelForCompletions(stats.TotalActivitiesCompleted)
	return []Milestone{
		// Level milestones
		levelMilestone("first_light", "First Light", "Reach level 2", "🌱", level, 2),
		levelMilestone("kindled", "Kindled", "Reach level 5", "🕯️", level, 5),
		levelMilestone("radiant", "Radiant", "Reach level 10", "🌟", level, 10),

		// Completion milestones
		countMilestone("first_step", "First Step", "Complete 1 activity", "✓", stats.TotalActivitiesCompleted, 1),
		countMilestone("practitioner", "Practitioner", "Complete 25 activities", "📿", stats.TotalActivitiesCompleted, 25),
		countMilestone("devotee", "Devotee", "Complete 100 activities", "🏅", stats.TotalActivitiesCompleted, 100),

		// Streak milestones
		countMilestone("three_days", "Three in a Row", "Keep a 3 day streak", "🔥", stats.LongestStreak, 3),
		countMilestone("full_week", "Full Week", "Keep a 7 day streak", "📅", stats.LongestStreak, 7),
		countMilestone("moon_cycle", "Moon Cycle", "Keep a 30 day streak", "🌕", stats.LongestStreak, 30),
	}
}

// CountEarned returns how many milestones have been earned.
func CountEarned(ms []Milestone) int {
	count := 0
	for _, m := range ms {
		if m.Earned {
			count++
		}
	}
	return count
}

func levelMilestone(id, name, desc, icon string, level, want int) Milestone {
	return Milestone{ID: id, Name: name, Description: desc, Icon: icon, Earned: level >= want}
}

func countMilestone(id, name, desc, icon string, have, want int) Milestone {
	return Milestone{ID: id, Name: name, Description: desc, Icon: icon, Earned: have >= want}
}
