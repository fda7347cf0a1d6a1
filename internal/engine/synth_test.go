package engine

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLevelCurve(t *testing.T) {
	if got := LevelForCompletions(0); got != 1 {
		t.Fatalf("LevelForCompletions(0)=%d, want 1", got)
	}
	if got := LevelForCompletions(-3); got != 1 {
		t.Fatalf("LevelForCompletions(-3)=%d, want 1", got)
	}
	l2 := CompletionsRequiredForLevel(2)
	if l2 != 5 {
		t.Fatalf("CompletionsRequiredForLevel(2)=%d, want 5", l2)
	}
	if got := LevelForCompletions(l2 - 1); got != 1 {
		t.Fatalf("LevelForCompletions(l2-1)=%d, want 1", got)
	}
	if got := LevelForCompletions(l2); got != 2 {
		t.Fatalf("LevelForCompletions(l2)=%d, want 2", got)
	}
	l7 := CompletionsRequiredForLevel(7)
	if got := LevelForCompletions(l7); got != 7 {
		t.Fatalf("LevelForCompletions(l7)=%d, want 7", got)
	}
}

func TestLevelIsMonotonic(t *testing.T) {
	prev := LevelForCompletions(0)
	for n := 1; n <= 2000; n++ {
		l := LevelForCompletions(n)
		if l < prev {
			t.Fatalf("level dropped from %d to %d at %d completions", prev, l, n)
		}
		prev = l
	}
}

func TestMoodPriority(t *testing.T) {
	hardDone := ActivityView{ID: "h", Completed: true}
	hardDone.Difficulty = 8
	easyDone := ActivityView{ID: "e", Completed: true}
	easyDone.Difficulty = 2
	current := &ActivityView{ID: "c"}

	cases := []struct {
		name  string
		sched DailySchedule
		stats CumulativeStats
		want  Mood
	}{
		{"hard completion wins", DailySchedule{Activities: []ActivityView{hardDone}, CompletedCount: 1, Current: current}, CumulativeStats{CurrentStreakDays: 5}, MoodDetermined},
		{"nothing done is calm", DailySchedule{Current: current}, CumulativeStats{CurrentStreakDays: 5}, MoodCalm},
		{"current is focused", DailySchedule{Activities: []ActivityView{easyDone}, CompletedCount: 1, Current: current}, CumulativeStats{CurrentStreakDays: 5}, MoodFocused},
		{"streak is energetic", DailySchedule{Activities: []ActivityView{easyDone}, CompletedCount: 1}, CumulativeStats{CurrentStreakDays: 3}, MoodEnergetic},
		{"otherwise reflective", DailySchedule{Activities: []ActivityView{easyDone}, CompletedCount: 1}, CumulativeStats{CurrentStreakDays: 2}, MoodReflective},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Synthesize(tc.sched, tc.stats, nil).CurrentMood; got != tc.want {
				t.Fatalf("mood=%s, want %s", got, tc.want)
			}
		})
	}
}

func TestMoodUsesLatestCompletion(t *testing.T) {
	early := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	late := early.Add(2 * time.Hour)

	hard := ActivityView{ID: "hard", Completed: true, CompletedAt: &early}
	hard.Difficulty = 9
	easy := ActivityView{ID: "easy", Completed: true, CompletedAt: &late}
	easy.Difficulty = 1

	sched := DailySchedule{Activities: []ActivityView{easy, hard}, CompletedCount: 2}
	if got := Synthesize(sched, CumulativeStats{}, nil).CurrentMood; got != MoodReflective {
		t.Fatalf("mood=%s, want reflective after an easy latest completion", got)
	}
}

func TestSynthesizeAttributesAndRoleModels(t *testing.T) {
	weights := []WeightedAttribute{
		{Attribute: "Equanimity", RoleModel: RoleModelMarcus, Weight: 0.5},
		{Attribute: "Perspective", RoleModel: RoleModelMarcus, Weight: 0.25},
		{Attribute: "Curiosity", RoleModel: RoleModelLeonardo, Weight: 0.75},
		{Attribute: "equanimity", RoleModel: RoleModelAngelou, Weight: 0.375},
		{Attribute: "Courage", RoleModel: RoleModelAngelou, Weight: 0.375},
	}
	current := &ActivityView{ID: "c", Attribute: "CURIOSITY"}
	state := Synthesize(DailySchedule{Current: current}, CumulativeStats{TotalActivitiesCompleted: 12, TotalPoints: 140, CurrentStreakDays: 2, LongestStreak: 6}, weights)

	if diff := cmp.Diff([]string{"Courage", "Curiosity", "Equanimity"}, state.ActiveAttributes); diff != "" {
		t.Fatalf("ActiveAttributes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Curiosity"}, state.GlowingAttributes); diff != "" {
		t.Fatalf("GlowingAttributes (-want +got):\n%s", diff)
	}
	if state.TotalPoints != 140 || state.CurrentStreakDays != 2 || state.LongestStreak != 6 {
		t.Fatalf("counters not passed through: %+v", state)
	}
	if state.Level != LevelForCompletions(12) {
		t.Fatalf("Level=%d", state.Level)
	}

	// Marcus 0.75, Leonardo 0.75, Angelou 0.75 tie; names break it.
	got := state.DominantRoleModels
	if len(got) != 3 {
		t.Fatalf("DominantRoleModels=%+v", got)
	}
	wantOrder := []string{RoleModelLeonardo, RoleModelMarcus, RoleModelAngelou}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Fatalf("rank %d=%s, want %s", i, got[i].Name, name)
		}
		if math.Abs(got[i].Influence-1) > 1e-9 {
			t.Fatalf("%s influence=%f, want 1", name, got[i].Influence)
		}
	}
}

func TestDominantRoleModelsInfluenceIsRelative(t *testing.T) {
	got := dominantRoleModels([]WeightedAttribute{
		{Attribute: "a", RoleModel: "B", Weight: 0.2},
		{Attribute: "b", RoleModel: "A", Weight: 0.8},
	})
	if got[0].Name != "A" || got[0].Influence != 1 {
		t.Fatalf("first=%+v", got[0])
	}
	if math.Abs(got[1].Influence-0.25) > 1e-9 {
		t.Fatalf("second influence=%f, want 0.25", got[1].Influence)
	}
}

func TestSynthesizeIsRepeatable(t *testing.T) {
	weights := []WeightedAttribute{{Attribute: "Courage", RoleModel: RoleModelAngelou, Weight: 0.9}}
	sched := DailySchedule{Current: &ActivityView{Attribute: "Courage"}}
	stats := CumulativeStats{TotalActivitiesCompleted: 40}
	a := Synthesize(sched, stats, weights)
	b := Synthesize(sched, stats, weights)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("Synthesize drifted (-a +b):\n%s", diff)
	}
}

func TestRecordCompletionStreaks(t *testing.T) {
	s := RecordCompletion(CumulativeStats{}, "2025-03-10", 10)
	if s.CurrentStreakDays != 1 || s.LongestStreak != 1 || s.TotalActivitiesCompleted != 1 || s.TotalPoints != 10 {
		t.Fatalf("first completion: %+v", s)
	}
	s = RecordCompletion(s, "2025-03-10", 5)
	if s.CurrentStreakDays != 1 || s.TotalActivitiesCompleted != 2 || s.TotalPoints != 15 {
		t.Fatalf("same day: %+v", s)
	}
	s = RecordCompletion(s, "2025-03-11", 5)
	s = RecordCompletion(s, "2025-03-12", 5)
	if s.CurrentStreakDays != 3 || s.LongestStreak != 3 {
		t.Fatalf("consecutive days: %+v", s)
	}
	s = RecordCompletion(s, "2025-03-15", 5)
	if s.CurrentStreakDays != 1 || s.LongestStreak != 3 || s.LastCompletedDate != "2025-03-15" {
		t.Fatalf("gap: %+v", s)
	}
	s = RecordCompletion(s, "2025-03-14", 5)
	if s.CurrentStreakDays != 1 || s.LastCompletedDate != "2025-03-15" || s.TotalActivitiesCompleted != 6 {
		t.Fatalf("backdated: %+v", s)
	}
}

func TestRecordCompletionAcrossMonthEnd(t *testing.T) {
	s := CumulativeStats{CurrentStreakDays: 4, LongestStreak: 4, LastCompletedDate: "2025-02-28"}
	s = RecordCompletion(s, "2025-03-01", 1)
	if s.CurrentStreakDays != 5 || s.LongestStreak != 5 {
		t.Fatalf("month end: %+v", s)
	}
}

func TestRevertCompletionNeverNegative(t *testing.T) {
	s := RevertCompletion(CumulativeStats{TotalActivitiesCompleted: 1, TotalPoints: 3, CurrentStreakDays: 2}, 10)
	if s.TotalActivitiesCompleted != 0 || s.TotalPoints != 0 || s.CurrentStreakDays != 2 {
		t.Fatalf("revert: %+v", s)
	}
}

func TestMilestones(t *testing.T) {
	ms := Milestones(CumulativeStats{TotalActivitiesCompleted: 25, LongestStreak: 7})
	earned := map[string]bool{}
	for _, m := range ms {
		earned[m.ID] = m.Earned
	}
	// 25 completions is level 3.
	for _, id := range []string{"first_light", "first_step", "practitioner", "three_days", "full_week"} {
		if !earned[id] {
			t.Fatalf("%s not earned", id)
		}
	}
	for _, id := range []string{"kindled", "radiant", "devotee", "moon_cycle"} {
		if earned[id] {
			t.Fatalf("%s earned too early", id)
		}
	}
	if got := CountEarned(ms); got != 5 {
		t.Fatalf("CountEarned=%d, want 5", got)
	}
}
