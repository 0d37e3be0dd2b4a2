package board

import (
	"context"

	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/store"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter  FilterOptions
	SortBy  string
	Reverse bool
	Limit   int
}

// List loads all tasks from the store, applies filters and sorting.
func List(ctx context.Context, s store.Store, opts ListOptions) ([]*task.Task, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	tasks := Filter(all, opts.Filter)
	if opts.SortBy != "" {
		Sort(tasks, opts.SortBy, opts.Reverse)
	}
	if opts.Limit > 0 && len(tasks) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}
	return tasks, nil
}

// StatusCount holds metrics for a single status.
type StatusCount struct {
	Status  task.Status `json:"status"`
	Count   int         `json:"count"`
	Overdue int         `json:"overdue"`
}

// PriorityCount holds a count for a priority level.
type PriorityCount struct {
	Priority task.Priority `json:"priority"`
	Count    int           `json:"count"`
}

// Overview is the aggregate board overview.
type Overview struct {
	BoardName  string          `json:"board_name"`
	TotalTasks int             `json:"total_tasks"`
	Completed  int             `json:"completed"`
	Overdue    int             `json:"overdue"`
	Untagged   int             `json:"untagged"`
	Undated    int             `json:"undated"`
	Statuses   []StatusCount   `json:"statuses"`
	Priorities []PriorityCount `json:"priorities"`
}

// Summary computes a board overview. Missing or unknown statuses and
// priorities count toward their defaults.
func Summary(name string, tasks []*task.Task, today date.Date) Overview {
	statusIdx := make(map[task.Status]int, len(task.Statuses()))
	statuses := make([]StatusCount, len(task.Statuses()))
	for i, s := range task.Statuses() {
		statuses[i].Status = s
		statusIdx[s] = i
	}
	prioIdx := make(map[task.Priority]int, len(task.Priorities()))
	priorities := make([]PriorityCount, len(task.Priorities()))
	for i, p := range task.Priorities() {
		priorities[i].Priority = p
		prioIdx[p] = i
	}

	ov := Overview{BoardName: name, TotalTasks: len(tasks)}
	for _, t := range tasks {
		sc := &statuses[statusIdx[t.Status.OrDefault()]]
		sc.Count++
		if t.IsOverdue(today) {
			sc.Overdue++
			ov.Overdue++
		}
		priorities[prioIdx[t.Priority.OrDefault()]].Count++
		if t.IsCompleted {
			ov.Completed++
		}
		if _, ok := t.PrimaryTag(); !ok {
			ov.Untagged++
		}
		if t.Due == nil {
			ov.Undated++
		}
	}
	ov.Statuses = statuses
	ov.Priorities = priorities
	return ov
}

// View is a board projected onto one pivot.
type View struct {
	Pivot   pivot.Pivot  `json:"pivot"`
	Mutable bool         `json:"mutable"`
	Columns []ColumnView `json:"columns"`
}

// ColumnView is one column of a View.
type ColumnView struct {
	pivot.Column
	Count int          `json:"count"`
	Tasks []*task.Task `json:"tasks"`
}

// Project groups tasks into the columns of p.
func Project(tasks []*task.Task, p pivot.Pivot) View {
	lanes := pivot.Group(tasks, p)
	v := View{Pivot: p, Mutable: p.Mutable(), Columns: make([]ColumnView, len(lanes))}
	for i, lane := range lanes {
		v.Columns[i] = ColumnView{Column: lane.Column, Count: len(lane.Tasks), Tasks: lane.Tasks}
	}
	return v
}
