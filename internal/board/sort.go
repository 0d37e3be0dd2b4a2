package board

import (
	"slices"
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

// SortFields lists the accepted --sort values.
func SortFields() []string {
	return []string{"created", "updated", "due", "priority", "status", "title", "id"}
}

// ValidateSortField rejects an unknown sort field.
func ValidateSortField(field string) error {
	if field == "" || slices.Contains(SortFields(), field) {
		return nil
	}
	return clierr.Newf(clierr.InvalidInput, "invalid sort field %q", field).
		WithDetails(map[string]any{"sort": field, "allowed": SortFields()})
}

// Sort sorts tasks in place by the given field. Status and priority use
// their canonical order rather than alphabetical.
func Sort(tasks []*task.Task, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if reverse {
			return compareTasks(tasks[j], tasks[i], field)
		}
		return compareTasks(tasks[i], tasks[j], field)
	})
}

func compareTasks(a, b *task.Task, field string) bool {
	switch field {
	case "id":
		return a.ID < b.ID
	case "status":
		return statusIndex(a.Status) < statusIndex(b.Status)
	case "priority":
		return priorityIndex(a.Priority) < priorityIndex(b.Priority)
	case "title":
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	case "updated":
		return a.Updated.Before(b.Updated)
	case "due":
		return compareDue(a, b)
	default:
		return a.Created.Before(b.Created)
	}
}

func compareDue(a, b *task.Task) bool {
	if a.Due == nil {
		return false // nil sorts last
	}
	if b.Due == nil {
		return true
	}
	return a.Due.Before(*b.Due)
}

func statusIndex(s task.Status) int {
	return slices.Index(task.Statuses(), s.OrDefault())
}

func priorityIndex(p task.Priority) int {
	return slices.Index(task.Priorities(), p.OrDefault())
}
