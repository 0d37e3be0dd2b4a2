package pivot

import (
	"strings"

	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

// DragEnd describes a completed drag gesture.
type DragEnd struct {
	TaskID string `json:"task_id"`
	Source string `json:"source"`
	// Destination is the column the card was dropped on, or nil when it was
	// dropped outside any column.
	Destination *string `json:"destination"`
}

// OnDragEnd translates a drag gesture on t into a patch. ok is false when no
// mutation is needed: the drop was cancelled, landed on the column it came
// from, or the pivot is read-only.
func OnDragEnd(t *task.Task, p Pivot, ev DragEnd) (task.Patch, bool) {
	if ev.Destination == nil {
		return task.Patch{}, false
	}
	if ev.Source != "" && ev.Source == *ev.Destination {
		return task.Patch{}, false
	}
	return Dispatch(t, p, *ev.Destination)
}

// Dispatch computes the patch that moves t into the column dest of pivot p.
// ok is false when t already belongs to dest, when dest is blank or not a
// valid column of p, or when p is a date pivot, which is read-only.
//
//	Status   {status: dest, is_completed: dest == "Done"}
//	Priority {priority: dest}
//	Tag      {tags: primary tag replaced by dest, or removed for "none"}
func Dispatch(t *task.Task, p Pivot, dest string) (task.Patch, bool) {
	dest = strings.TrimSpace(dest)
	if t == nil || dest == "" || Resolve(t, p) == dest {
		return task.Patch{}, false
	}

	switch p {
	case Status:
		s := task.Status(dest)
		if !s.Valid() {
			return task.Patch{}, false
		}
		return task.StatusPatch(s), true
	case Priority:
		pr := task.Priority(dest)
		if !pr.Valid() {
			return task.Patch{}, false
		}
		return task.Patch{Priority: &pr}, true
	case Tag:
		primary := dest
		if dest == NoneKey {
			primary = ""
		}
		tags := task.ReplacePrimaryTag(t.Tags, primary)
		return task.Patch{Tags: &tags}, true
	case DateByDay, DateByMonth, DateByYear:
		return task.Patch{}, false
	default:
		return task.Patch{}, false
	}
}
