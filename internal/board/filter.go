// Package board provides board-level operations on task collections:
// filtering, sorting, summaries, pivot projections and the move path that
// turns a drop into a persisted patch.
package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

// FilterOptions defines which tasks to include. Zero values match everything.
type FilterOptions struct {
	Statuses   []task.Status
	Priorities []task.Priority
	Tag        string
	Search     string // case-insensitive substring match across title, body, and tags
	Completed  *bool  // nil=no filter
	Overdue    bool   // only incomplete tasks due before Today
	DueBefore  *date.Date
	Today      date.Date
}

// Filter returns tasks matching all specified criteria (AND logic). Status
// and priority match on the effective value, so a task with no status
// matches Pending.
func Filter(tasks []*task.Task, opts FilterOptions) []*task.Task {
	var result []*task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t *task.Task, opts FilterOptions) bool {
	if len(opts.Statuses) > 0 && !slices.Contains(opts.Statuses, t.Status.OrDefault()) {
		return false
	}
	if len(opts.Priorities) > 0 && !slices.Contains(opts.Priorities, t.Priority.OrDefault()) {
		return false
	}
	if opts.Tag != "" && !slices.Contains(t.Tags, opts.Tag) {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	if opts.Completed != nil && t.IsCompleted != *opts.Completed {
		return false
	}
	if opts.Overdue && !t.IsOverdue(opts.Today) {
		return false
	}
	if opts.DueBefore != nil && (t.Due == nil || !t.Due.Before(*opts.DueBefore)) {
		return false
	}
	return true
}

// matchesSearch performs case-insensitive substring matching across title, body, and tags.
func matchesSearch(t *task.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Body), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
