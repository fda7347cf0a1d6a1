package engine

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type PatternType string

const (
	PatternDaily   PatternType = "daily"
	PatternWeekly  PatternType = "weekly"
	PatternMonthly PatternType = "monthly"
	PatternCustom  PatternType = "custom"
)

func (p PatternType) IsValid() bool {
	switch p {
	case PatternDaily, PatternWeekly, PatternMonthly, PatternCustom:
		return true
	default:
		return false
	}
}

func ParsePatternType(input string) (PatternType, error) {
	p := PatternType(strings.TrimSpace(strings.ToLower(input)))
	if !p.IsValid() {
		return "", &PatternError{Field: "type", Reason: fmt.Sprintf("%q is not one of daily|weekly|monthly|custom", input)}
	}
	return p, nil
}

// DefaultMaxDaysToCheck bounds NextOccurrence lookahead.
const DefaultMaxDaysToCheck = 366

// RecurringPattern describes when a template recurs. Exactly the day-selection
// field matching Type is populated; Interval only applies to daily patterns.
type RecurringPattern struct {
	Type        PatternType `json:"type"`
	Interval    int         `json:"interval,omitempty"`
	DaysOfWeek  []int       `json:"daysOfWeek,omitempty"`
	DaysOfMonth []int       `json:"daysOfMonth,omitempty"`
	CustomDates []string    `json:"customDates,omitempty"`

	// EndDate is an optional inclusive YYYY-MM-DD bound.
	EndDate string `json:"endDate,omitempty"`
	// MaxOccurrences of zero means unbounded.
	MaxOccurrences int `json:"maxOccurrences,omitempty"`
}

// NewRecurringPattern validates p and returns a normalized copy: day sets are
// sorted and de-duplicated and a daily interval of zero becomes 1.
func NewRecurringPattern(p RecurringPattern) (*RecurringPattern, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := p
	if out.Type == PatternDaily && out.Interval == 0 {
		out.Interval = 1
	}
	out.DaysOfWeek = sortedUnique(p.DaysOfWeek)
	out.DaysOfMonth = sortedUnique(p.DaysOfMonth)
	if len(p.CustomDates) > 0 {
		dates := slices.Clone(p.CustomDates)
		for i := range dates {
			dates[i] = strings.TrimSpace(dates[i])
		}
		slices.Sort(dates)
		out.CustomDates = slices.Compact(dates)
	}
	return &out, nil
}

// Validate checks the shape invariant of the pattern.
func (p RecurringPattern) Validate() error {
	if !p.Type.IsValid() {
		return &PatternError{Field: "type", Reason: fmt.Sprintf("%q is not one of daily|weekly|monthly|custom", p.Type)}
	}
	if p.MaxOccurrences < 0 {
		return &PatternError{Field: "maxOccurrences", Reason: "must be positive"}
	}
	if p.EndDate != "" {
		if _, err := time.Parse(DateLayout, p.EndDate); err != nil {
			return &PatternError{Field: "endDate", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", p.EndDate)}
		}
	}

	populated := map[string]bool{
		"daysOfWeek":  len(p.DaysOfWeek) > 0,
		"daysOfMonth": len(p.DaysOfMonth) > 0,
		"customDates": len(p.CustomDates) > 0,
	}
	want := ""
	switch p.Type {
	case PatternDaily:
		if p.Interval < 0 {
			return &PatternError{Field: "interval", Reason: "must be positive"}
		}
	case PatternWeekly:
		want = "daysOfWeek"
	case PatternMonthly:
		want = "daysOfMonth"
	case PatternCustom:
		want = "customDates"
	}
	for _, field := range []string{"daysOfWeek", "daysOfMonth", "customDates"} {
		if field == want && !populated[field] {
			return &PatternError{Field: field, Reason: fmt.Sprintf("is required for %s patterns", p.Type)}
		}
		if field != want && populated[field] {
			return &PatternError{Field: field, Reason: fmt.Sprintf("is not allowed for %s patterns", p.Type)}
		}
	}

	for _, d := range p.DaysOfWeek {
		if d < 0 || d > 6 {
			return &PatternError{Field: "daysOfWeek", Reason: fmt.Sprintf("%d is outside 0-6", d)}
		}
	}
	for _, d := range p.DaysOfMonth {
		if d < 1 || d > 31 {
			return &PatternError{Field: "daysOfMonth", Reason: fmt.Sprintf("%d is outside 1-31", d)}
		}
	}
	for _, s := range p.CustomDates {
		if _, err := time.Parse(DateLayout, strings.TrimSpace(s)); err != nil {
			return &PatternError{Field: "customDates", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", s)}
		}
	}
	return nil
}

// matcher builds the per-day predicate once per expansion.
func (p *RecurringPattern) matcher() func(day time.Time) bool {
	switch p.Type {
	case PatternDaily:
		interval := p.Interval
		return func(day time.Time) bool {
			// Anchored to the calendar day-of-month, not the series start.
			return interval <= 1 || day.Day()%interval == 0
		}
	case PatternWeekly:
		var week [7]bool
		for _, d := range p.DaysOfWeek {
			if d >= 0 && d <= 6 {
				week[d] = true
			}
		}
		return func(day time.Time) bool { return week[int(day.Weekday())] }
	case PatternMonthly:
		var month [32]bool
		for _, d := range p.DaysOfMonth {
			if d >= 1 && d <= 31 {
				month[d] = true
			}
		}
		return func(day time.Time) bool { return month[day.Day()] }
	case PatternCustom:
		set := make(map[string]bool, len(p.CustomDates))
		for _, s := range p.CustomDates {
			set[strings.TrimSpace(s)] = true
		}
		return func(day time.Time) bool { return set[FormatDate(day)] }
	default:
		return func(time.Time) bool { return false }
	}
}

// endBound returns the pattern end date at midnight in loc.
func (p *RecurringPattern) endBound(loc *time.Location) (time.Time, bool) {
	if p.EndDate == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, p.EndDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// OccurrenceID is the deterministic id of the n-th (zero-based) occurrence of
// a template produced by one expansion.
func OccurrenceID(templateID string, date string, n int) string {
	return fmt.Sprintf("%s_%s_%d", templateID, date, n)
}

// DayOccurrenceID is the id the schedule assembler gives the occurrence of a
// template on date, since it expands one day at a time.
func DayOccurrenceID(templateID string, date string) string {
	return OccurrenceID(templateID, date, 0)
}

// Expand emits one instance per day in [start, end] matched by pattern. A nil
// pattern yields the template itself as a single undated instance. Expanded
// instances carry the template's scheduled time and no pattern of their own.
func Expand(t ActivityTemplate, pattern *RecurringPattern, start, end time.Time) []ScheduledInstance {
	start, end = startOfDay(start), startOfDay(end)
	if start.After(end) {
		return nil
	}
	if pattern == nil {
		return []ScheduledInstance{{ID: t.ID, ActivityID: t.ID, Time: t.ScheduledTime}}
	}

	match := pattern.matcher()
	last, bounded := pattern.endBound(start.Location())

	var out []ScheduledInstance
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if pattern.MaxOccurrences > 0 && len(out) >= pattern.MaxOccurrences {
			break
		}
		if bounded && day.After(last) {
			break
		}
		if !match(day) {
			continue
		}
		date := FormatDate(day)
		out = append(out, ScheduledInstance{
			ID:         OccurrenceID(t.ID, date, len(out)),
			ActivityID: t.ID,
			Date:       date,
			Time:       t.ScheduledTime,
		})
	}
	return out
}

// NextOccurrence finds the first day on or after from that the pattern matches,
// checking at most maxDaysToCheck days. MaxOccurrences is not considered since
// it depends on history the pattern does not carry.
func NextOccurrence(pattern *RecurringPattern, from time.Time, maxDaysToCheck int) (time.Time, bool) {
	if pattern == nil {
		return time.Time{}, false
	}
	if maxDaysToCheck <= 0 {
		maxDaysToCheck = DefaultMaxDaysToCheck
	}
	match := pattern.matcher()
	day := startOfDay(from)
	last, bounded := pattern.endBound(day.Location())
	for i := 0; i < maxDaysToCheck; i++ {
		if bounded && day.After(last) {
			return time.Time{}, false
		}
		if match(day) {
			return day, true
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

func sortedUnique(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}
