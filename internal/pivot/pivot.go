// Package pivot groups tasks into kanban columns along a chosen axis and
// turns a card dropped on another column into a task patch.
//
// Everything here is pure: no I/O, no shared state. The caller owns the
// selected pivot and the task collection and passes both in on every call.
package pivot

import (
	"strings"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
)

// Pivot is the classification axis used to build columns.
type Pivot int

// Pivots, in the order the TUI cycles through them.
const (
	Status Pivot = iota
	Priority
	DateByDay
	DateByMonth
	DateByYear
	Tag
)

// NoneKey is the group key of tasks lacking the pivoted attribute, and the id
// of the trailing bucket column on open pivots.
const NoneKey = "none"

// NoneLabel is the display label of the bucket column.
const NoneLabel = "Uncategorized"

// All returns every pivot in cycle order.
func All() []Pivot {
	return []Pivot{Status, Priority, DateByDay, DateByMonth, DateByYear, Tag}
}

// String returns the canonical flag/query name of the pivot.
func (p Pivot) String() string {
	switch p {
	case Status:
		return "status"
	case Priority:
		return "priority"
	case DateByDay:
		return "day"
	case DateByMonth:
		return "month"
	case DateByYear:
		return "year"
	case Tag:
		return "tag"
	default:
		return "unknown"
	}
}

// Title is the human-facing name of the pivot.
func (p Pivot) Title() string {
	switch p {
	case Status:
		return "Status"
	case Priority:
		return "Priority"
	case DateByDay:
		return "Due day"
	case DateByMonth:
		return "Due month"
	case DateByYear:
		return "Due year"
	case Tag:
		return "Tag"
	default:
		return "Unknown"
	}
}

// Closed reports whether the pivot has a fixed column set independent of the
// data.
func (p Pivot) Closed() bool {
	return p == Status || p == Priority
}

// Mutable reports whether dropping a card on another column of this pivot
// changes the task. Date pivots are view-only.
func (p Pivot) Mutable() bool {
	switch p {
	case Status, Priority, Tag:
		return true
	default:
		return false
	}
}

// Next returns the following pivot in cycle order, wrapping around.
func (p Pivot) Next() Pivot {
	all := All()
	return all[(int(p)+1)%len(all)]
}

// Prev returns the preceding pivot in cycle order, wrapping around.
func (p Pivot) Prev() Pivot {
	all := All()
	return all[(int(p)+len(all)-1)%len(all)]
}

// Parse resolves a pivot name. Accepted spellings include the canonical names
// plus "date" (day), "due-day", "due-month", "due-year", "tags" and the
// DateBy* forms.
func Parse(s string) (Pivot, error) {
	switch strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s))) {
	case "status":
		return Status, nil
	case "priority":
		return Priority, nil
	case "day", "date", "dueday", "datebyday":
		return DateByDay, nil
	case "month", "duemonth", "datebymonth":
		return DateByMonth, nil
	case "year", "dueyear", "datebyyear":
		return DateByYear, nil
	case "tag", "tags":
		return Tag, nil
	default:
		return 0, clierr.Newf(clierr.InvalidPivot, "invalid pivot %q; valid: %s", s, strings.Join(Names(), ", ")).
			WithDetails(map[string]any{"pivot": s, "allowed": Names()})
	}
}

// Names returns the canonical names of all pivots.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.String()
	}
	return names
}

// MarshalText implements encoding.TextMarshaler.
func (p Pivot) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pivot) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
