package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/store"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

// Move is the outcome of dropping a task on a column.
type Move struct {
	Task    *task.Task  `json:"task"`
	From    string      `json:"from"`
	To      string      `json:"to"`
	Pivot   pivot.Pivot `json:"pivot"`
	Changed bool        `json:"changed"`
	Patch   task.Patch  `json:"patch"`
}

// Reflect returns a copy of tasks in which the task with the given ID has p
// applied. Neither tasks nor its elements are modified, so a view can show
// the result before the store confirms it.
func Reflect(tasks []*task.Task, id string, p task.Patch, now time.Time) []*task.Task {
	out := make([]*task.Task, len(tasks))
	copy(out, tasks)
	for i, t := range out {
		if t.ID == id {
			c := t.Clone()
			task.ApplyPatch(c, p, now)
			out[i] = c
			break
		}
	}
	return out
}

// Persist forwards p to the store and records the mutation in the activity
// log under logDir. No log entry is written when logDir is empty or the
// store rejects the patch. Store failures are returned unchanged; there is
// no retry.
func Persist(ctx context.Context, s store.Store, logDir, id string, p task.Patch, detail string) (*task.Task, error) {
	t, err := s.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	if logDir != "" {
		if detail == "" {
			detail = "set " + strings.Join(p.Fields(), ", ")
		}
		LogMutation(logDir, "move", t.ID, detail)
	}
	return t, nil
}

// MoveTask resolves the task id in the store and drops it on column dest of
// pivot p. A drop that needs no mutation (same column, invalid column, date
// pivot) returns Changed false and does not touch the store.
func MoveTask(ctx context.Context, s store.Store, logDir, id string, p pivot.Pivot, dest string) (Move, error) {
	return Drop(ctx, s, logDir, p, pivot.DragEnd{TaskID: id, Destination: &dest})
}

// Drop applies a drag gesture reported by a client. The source column is
// recomputed from the stored task; a client-supplied source only short
// circuits a drop back onto it.
func Drop(ctx context.Context, s store.Store, logDir string, p pivot.Pivot, ev pivot.DragEnd) (Move, error) {
	t, err := s.Get(ctx, ev.TaskID)
	if err != nil {
		return Move{}, err
	}
	from := pivot.Resolve(t, p)
	m := Move{Task: t, From: from, Pivot: p}
	if ev.Destination == nil {
		return m, nil
	}
	m.To = *ev.Destination

	patch, ok := pivot.OnDragEnd(t, p, ev)
	if !ok {
		return m, nil
	}
	updated, err := Persist(ctx, s, logDir, t.ID, patch, fmt.Sprintf("%s: %s -> %s", p, from, m.To))
	if err != nil {
		return Move{}, err
	}
	m.Task = updated
	m.Changed = true
	m.Patch = patch
	return m, nil
}
