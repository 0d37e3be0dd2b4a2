package pivot

import (
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

// Resolve returns the group key of t under p. It is total: every task,
// including nil and tasks with missing or invalid fields, maps to exactly one
// key, and the same input always yields the same key.
//
//	Status      status value, or "Pending"
//	Priority    priority value, or "Medium"
//	DateByDay   YYYY-MM-DD of due_date, or "none"
//	DateByMonth YYYY-MM of due_date, or "none"
//	DateByYear  YYYY of due_date, or "none"
//	Tag         primary tag, or "none"
func Resolve(t *task.Task, p Pivot) string {
	switch p {
	case Status:
		if t == nil {
			return string(task.DefaultStatus)
		}
		return string(t.Status.OrDefault())
	case Priority:
		if t == nil {
			return string(task.DefaultPriority)
		}
		return string(t.Priority.OrDefault())
	case DateByDay:
		if t == nil || t.Due == nil {
			return NoneKey
		}
		return t.Due.DayKey()
	case DateByMonth:
		if t == nil || t.Due == nil {
			return NoneKey
		}
		return t.Due.MonthKey()
	case DateByYear:
		if t == nil || t.Due == nil {
			return NoneKey
		}
		return t.Due.YearKey()
	case Tag:
		tag, ok := t.PrimaryTag()
		if !ok {
			return NoneKey
		}
		return tag
	default:
		return NoneKey
	}
}
