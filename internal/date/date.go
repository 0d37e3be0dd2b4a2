// Package date provides a calendar Date type that marshals as YYYY-MM-DD,
// plus the day/month/year bucket keys used to group tasks by due date.
package date

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Key layouts. All are zero-padded so byte order matches calendar order.
const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
	YearLayout  = "2006"
)

// Date represents a calendar date without time or timezone.
type Date struct {
	time.Time
}

// New creates a Date from year, month, day. The value is normalized to
// midnight UTC.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar day in t's own location.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns today's date.
func Today() Date {
	return FromTime(time.Now())
}

// Parse parses a YYYY-MM-DD string into a Date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// ParseRelative accepts YYYY-MM-DD, "today", "tomorrow", "yesterday" and
// offsets like "+3d" or "-2w" relative to now.
func ParseRelative(s string, now time.Time) (Date, error) {
	base := FromTime(now)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return base, nil
	case "tomorrow":
		return base.AddDays(1), nil
	case "yesterday":
		return base.AddDays(-1), nil
	}

	if len(s) >= 3 && (s[0] == '+' || s[0] == '-') { //nolint:mnd // sign, digits, unit
		n, err := strconv.Atoi(s[1 : len(s)-1])
		if err != nil {
			return Date{}, fmt.Errorf("invalid date offset %q", s)
		}
		if s[0] == '-' {
			n = -n
		}
		switch s[len(s)-1] {
		case 'd':
			return base.AddDays(n), nil
		case 'w':
			return base.AddDays(n * 7), nil //nolint:mnd // days per week
		default:
			return Date{}, fmt.Errorf("invalid date offset unit in %q (use d or w)", s)
		}
	}

	return Parse(s)
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DayLayout)
}

// DayKey returns the sortable day bucket key, YYYY-MM-DD.
func (d Date) DayKey() string { return d.Format(DayLayout) }

// MonthKey returns the bucket key of the first day of d's month, YYYY-MM.
func (d Date) MonthKey() string {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).Format(MonthLayout)
}

// YearKey returns the year bucket key, YYYY.
func (d Date) YearKey() string { return d.Format(YearLayout) }

// LabelFromKey turns a bucket key back into a display label:
// "5 March 2024", "March 2024" or "2024". Year keys and unknown keys are
// returned as-is.
func LabelFromKey(key string) string {
	if t, err := time.Parse(DayLayout, key); err == nil {
		return t.Format("2 January 2006")
	}
	if t, err := time.Parse(MonthLayout, key); err == nil {
		return t.Format("January 2006")
	}
	return key
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.v3 Unmarshaler.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := Parse(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
