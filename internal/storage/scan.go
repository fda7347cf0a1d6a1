package storage

import (
	"database/sql"
	"time"
)

type scanner interface {
	Scan(dest ...any) error
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

// overrideDest holds scan targets for the seven nullable override columns.
type overrideDest struct {
	title, description, duration, icon sql.NullString
	points, difficulty                 sql.NullInt64
	category                           sql.NullString
}

func (d *overrideDest) targets() []any {
	return []any{&d.title, &d.description, &d.duration, &d.icon, &d.points, &d.difficulty, &d.category}
}

func (d *overrideDest) columns() OverrideColumns {
	return OverrideColumns{
		Title:       nullString(d.title),
		Description: nullString(d.description),
		Duration:    nullString(d.duration),
		Icon:        nullString(d.icon),
		Points:      nullInt(d.points),
		Difficulty:  nullInt(d.difficulty),
		Category:    nullString(d.category),
	}
}

func (o OverrideColumns) args() []any {
	return []any{o.Title, o.Description, o.Duration, o.Icon, o.Points, o.Difficulty, o.Category}
}
