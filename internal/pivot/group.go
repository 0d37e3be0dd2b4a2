package pivot

import "github.com/twiced-technology-gmbh/pivotboard/internal/task"

// Lane is a column together with its member tasks.
type Lane struct {
	Column
	Tasks []*task.Task `json:"tasks"`
}

// MembersOf returns the tasks whose group key under p equals columnID, in
// the order they appear in tasks. The input slice is not modified. The
// result is never nil.
func MembersOf(tasks []*task.Task, p Pivot, columnID string) []*task.Task {
	members := make([]*task.Task, 0)
	for _, t := range tasks {
		if Resolve(t, p) == columnID {
			members = append(members, t)
		}
	}
	return members
}

// Group builds every column of p and fills it with its members. Each task
// lands in exactly one lane.
func Group(tasks []*task.Task, p Pivot) []Lane {
	cols := Columns(tasks, p)
	lanes := make([]Lane, len(cols))
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		lanes[i] = Lane{Column: c, Tasks: make([]*task.Task, 0)}
		index[c.ID] = i
	}
	for _, t := range tasks {
		if i, ok := index[Resolve(t, p)]; ok {
			lanes[i].Tasks = append(lanes[i].Tasks, t)
		}
	}
	return lanes
}
