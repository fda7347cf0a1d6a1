package storage

import "time"

// Activity is a catalog row. Pattern holds the recurring pattern as JSON.
type Activity struct {
	ID             string
	Title          string
	Description    string
	Duration       string
	Points         int
	Difficulty     int
	Category       string
	Icon           string
	Attribute      string
	RoleModel      string
	RoleModelColor string
	ScheduledTime  string
	Pattern        *string
	SortOrder      int
}

// OverrideColumns are the nullable customizable columns shared by
// preferences and scheduled instances.
type OverrideColumns struct {
	Title       *string
	Description *string
	Duration    *string
	Icon        *string
	Points      *int
	Difficulty  *int
	Category    *string
}

type Preference struct {
	ID         int64
	OwnerKey   string
	ActivityID string
	Overrides  OverrideColumns
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Instance struct {
	ID          string
	ActivityID  string
	OwnerKey    string
	Date        string
	Time        string
	Overrides   OverrideColumns
	Completed   bool
	CompletedAt *time.Time
	Rating      *int
	Notes       *string
	ParentID    *string
}

type OwnerStats struct {
	OwnerKey          string
	TotalCompleted    int
	TotalPoints       int
	CurrentStreak     int
	LongestStreak     int
	LastCompletedDate *string
}

type Completion struct {
	ID            int64
	InstanceID    string
	OwnerKey      string
	CompletedAt   time.Time
	PointsAwarded int
}
