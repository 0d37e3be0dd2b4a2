package pivot

import (
	"time"

	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

func due(year int, month time.Month, day int) *date.Date {
	d := date.New(year, month, day)
	return &d
}

func ids(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func columnIDs(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.ID
	}
	return out
}

// sampleTasks covers every attribute being present, absent and invalid.
func sampleTasks() []*task.Task {
	return []*task.Task{
		{ID: "1", Status: task.StatusInProgress, Priority: task.PriorityHigh, Due: due(2024, time.March, 5), Tags: []string{"urgent", "client-x"}},
		{ID: "2"},
		{ID: "3", Status: task.StatusDone, Priority: task.PriorityLow, Due: due(2024, time.March, 20), Tags: []string{"client-x"}},
		{ID: "4", Status: "Bogus", Priority: "Urgent", Due: due(2025, time.January, 1), Tags: []string{"q3", "urgent"}},
		{ID: "5", Status: task.StatusPaused, Due: due(2023, time.December, 31)},
		{ID: "6", Priority: task.PriorityMedium, Tags: []string{"Urgent"}},
	}
}
