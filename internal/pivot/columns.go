package pivot

import (
	"hash/fnv"
	"sort"

	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

// Column is one derived grouping bucket. Columns are recomputed on every
// call; they have no identity beyond their ID.
type Column struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"` // ANSI 256 color code
}

// Column palette.
var (
	statusColors = map[task.Status]string{
		task.StatusPending:    "252",
		task.StatusInProgress: "33",
		task.StatusPaused:     "208",
		task.StatusDone:       "34",
	}

	priorityColors = map[task.Priority]string{
		task.PriorityHigh:   "196",
		task.PriorityMedium: "226",
		task.PriorityLow:    "242",
	}

	// tagPalette is a set of distinct, readable terminal colors for tags.
	tagPalette = []string{"33", "36", "35", "32", "91", "34", "93", "96"}

	dateColor = "110"
	noneColor = "241"
)

// Columns returns the ordered columns for tasks under p. Column IDs are
// unique.
//
// Status and Priority always yield every enumeration value in canonical
// order, even with no tasks. Date and Tag pivots yield one column per
// distinct key, sorted ascending, followed by the "none" bucket column,
// which is always present and always last.
func Columns(tasks []*task.Task, p Pivot) []Column {
	switch p {
	case Status:
		cols := make([]Column, 0, len(task.Statuses()))
		for _, s := range task.Statuses() {
			cols = append(cols, Column{ID: string(s), Label: s.Label(), Color: statusColors[s]})
		}
		return cols
	case Priority:
		cols := make([]Column, 0, len(task.Priorities()))
		for _, pr := range task.Priorities() {
			cols = append(cols, Column{ID: string(pr), Label: string(pr), Color: priorityColors[pr]})
		}
		return cols
	case DateByDay, DateByMonth, DateByYear, Tag:
		return openColumns(tasks, p)
	default:
		return []Column{bucketColumn()}
	}
}

// openColumns derives the column set of a data-driven pivot.
func openColumns(tasks []*task.Task, p Pivot) []Column {
	seen := make(map[string]bool)
	keys := make([]string, 0)
	for _, t := range tasks {
		key := Resolve(t, p)
		if key == NoneKey || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	// Date keys are zero-padded, so byte order is calendar order.
	sort.Strings(keys)

	cols := make([]Column, 0, len(keys)+1)
	for _, key := range keys {
		cols = append(cols, Column{ID: key, Label: label(key, p), Color: color(key, p)})
	}
	return append(cols, bucketColumn())
}

func label(key string, p Pivot) string {
	if p == Tag {
		return key
	}
	return date.LabelFromKey(key)
}

func color(key string, p Pivot) string {
	if p == Tag {
		return TagColor(key)
	}
	return dateColor
}

func bucketColumn() Column {
	return Column{ID: NoneKey, Label: NoneLabel, Color: noneColor}
}

// TagColor hashes a tag into the palette. The same tag always gets the same
// color.
func TagColor(tag string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag))
	return tagPalette[h.Sum32()%uint32(len(tagPalette))]
}

// ColumnIndex returns the position of the column with the given ID, or -1.
func ColumnIndex(cols []Column, id string) int {
	for i, c := range cols {
		if c.ID == id {
			return i
		}
	}
	return -1
}
