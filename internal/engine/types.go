package engine

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryMindfulness    Category = "mindfulness"
	CategoryDecisionMaking Category = "decision-making"
	CategoryCommunication  Category = "communication"
	CategoryReflection     Category = "reflection"
	CategoryPhysical       Category = "physical"
	CategoryCreative       Category = "creative"
	CategoryLearning       Category = "learning"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryMindfulness, CategoryDecisionMaking, CategoryCommunication,
		CategoryReflection, CategoryPhysical, CategoryCreative, CategoryLearning:
		return true
	default:
		return false
	}
}

// Difficulty is the 1-9 effort rating of an activity.
type Difficulty int

const (
	DifficultyMin Difficulty = 1
	DifficultyMax Difficulty = 9

	// DifficultyHigh and above counts as a hard activity for mood purposes.
	DifficultyHigh Difficulty = 7
)

func (d Difficulty) IsValid() bool {
	return d >= DifficultyMin && d <= DifficultyMax
}

type Mood string

const (
	MoodEnergetic  Mood = "energetic"
	MoodFocused    Mood = "focused"
	MoodCalm       Mood = "calm"
	MoodReflective Mood = "reflective"
	MoodDetermined Mood = "determined"
)

// ActivityTemplate is a read-only catalog entry authored for a role model.
type ActivityTemplate struct {
	ID             string
	Title          string
	Description    string
	Duration       string
	Points         int
	Difficulty     Difficulty
	Category       Category
	Icon           string
	Attribute      string
	RoleModel      string
	RoleModelColor string

	// ScheduledTime is the default HH:MM for instances expanded from Pattern.
	ScheduledTime string
	Pattern       *RecurringPattern
}

// Fields returns the customizable subset of the template.
func (t ActivityTemplate) Fields() Fields {
	return Fields{
		Title:       t.Title,
		Description: t.Description,
		Duration:    t.Duration,
		Icon:        t.Icon,
		Points:      t.Points,
		Difficulty:  t.Difficulty,
		Category:    t.Category,
	}
}

// Fields are the values a user may customize on an activity.
type Fields struct {
	Title       string
	Description string
	Duration    string
	Icon        string
	Points      int
	Difficulty  Difficulty
	Category    Category
}

// Preference is a durable per-owner customization of one activity.
type Preference struct {
	OwnerKey   string
	ActivityID string
	Overrides  Overrides
	Active     bool
	UpdatedAt  time.Time
}

// ScheduledInstance is a concrete dated occurrence of a template.
type ScheduledInstance struct {
	ID         string
	ActivityID string
	OwnerKey   string
	Date       string // YYYY-MM-DD
	Time       string // HH:MM
	Overrides  Overrides

	Completed   bool
	CompletedAt *time.Time
	Rating      *int
	Notes       *string

	// ParentID points at the recurring occurrence this instance was edited from.
	ParentID *string
}

// ActivityView is a resolved instance as shown to the user.
type ActivityView struct {
	ID         string
	ActivityID string
	Date       string
	Time       string

	Fields
	CustomCategory Optional[Category]

	Attribute      string
	RoleModel      string
	RoleModelColor string

	Completed   bool
	CompletedAt *time.Time
	Rating      *int
	Notes       *string
	ParentID    *string
}

// Scheduled reports whether the view carries a parsable clock time.
func (v ActivityView) Scheduled() bool {
	_, ok := ParseClock(v.Time)
	return ok
}

// DailySchedule is the derived state of one day. It is never persisted.
type DailySchedule struct {
	Date                 string
	Activities           []ActivityView
	CompletedCount       int
	TotalPoints          int
	CompletionPercentage float64
	Current              *ActivityView
	Next                 []ActivityView

	// Unresolved lists instance ids whose template is missing from the catalog.
	Unresolved []string
}

// CumulativeStats are the running counters kept per owner.
type CumulativeStats struct {
	TotalActivitiesCompleted int
	TotalPoints              int
	CurrentStreakDays        int
	LongestStreak            int
	LastCompletedDate        string
}

// WeightedAttribute is one selected role-model attribute and its weight.
type WeightedAttribute struct {
	Attribute string
	RoleModel string
	Weight    float64
}

type RoleModelInfluence struct {
	Name      string
	Weight    float64
	Influence float64
}

// LightwalkerState is the synthesized character state. It is never persisted.
type LightwalkerState struct {
	Level              int
	TotalPoints        int
	CurrentStreakDays  int
	LongestStreak      int
	CurrentMood        Mood
	ActiveAttributes   []string
	GlowingAttributes  []string
	DominantRoleModels []RoleModelInfluence
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
