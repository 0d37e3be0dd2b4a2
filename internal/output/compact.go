package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/pivotboard/internal/board"
	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task) {
	fmt.Fprintln(w, formatTaskLine(t))

	ts := "  created:" + t.Created.Format("2006-01-02") +
		" updated:" + t.Updated.Format("2006-01-02")
	if t.Completed != nil {
		ts += " completed:" + t.Completed.Format("2006-01-02")
	}
	fmt.Fprintln(w, ts)

	if t.Body != "" {
		for _, bodyLine := range strings.Split(strings.TrimRight(t.Body, "\n"), "\n") {
			fmt.Fprintln(w, "  "+bodyLine)
		}
	}
}

// OverviewCompact renders a board summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks, %d completed, %d overdue)\n", s.BoardName, s.TotalTasks, s.Completed, s.Overdue)

	for _, sc := range s.Statuses {
		line := "  " + sc.Status.Label() + ": " + strconv.Itoa(sc.Count)
		if sc.Overdue > 0 {
			line += " (" + strconv.Itoa(sc.Overdue) + " overdue)"
		}
		fmt.Fprintln(w, line)
	}

	parts := make([]string, 0, len(s.Priorities))
	for _, pc := range s.Priorities {
		parts = append(parts, string(pc.Priority)+"="+strconv.Itoa(pc.Count))
	}
	fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))
}

// BoardCompact renders a pivot projection as "Label (n): id id id" lines.
func BoardCompact(w io.Writer, v board.View) {
	for _, c := range v.Columns {
		ids := make([]string, len(c.Tasks))
		for i, t := range c.Tasks {
			ids[i] = task.ShortID(t.ID)
		}
		line := c.Label + " (" + strconv.Itoa(c.Count) + ")"
		if len(ids) > 0 {
			line += ": " + strings.Join(ids, " ")
		}
		fmt.Fprintln(w, line)
	}
}

// MoveCompact renders the outcome of a move.
func MoveCompact(w io.Writer, m board.Move) {
	if !m.Changed {
		fmt.Fprintf(w, "%s unchanged (%s: %s)\n", task.ShortID(m.Task.ID), m.Pivot, m.From)
		return
	}
	fmt.Fprintf(w, "%s %s: %s -> %s\n", task.ShortID(m.Task.ID), m.Pivot, m.From, m.To)
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	line := task.ShortID(t.ID) + " [" + string(t.Status.OrDefault()) + "/" + string(t.Priority.OrDefault()) + "] " + t.Title
	if len(t.Tags) > 0 {
		line += " (" + strings.Join(t.Tags, ", ") + ")"
	}
	if t.Due != nil {
		line += " due:" + t.Due.String()
	}
	return line
}

func dateOf(t time.Time) date.Date {
	return date.FromTime(t)
}

// LogCompact renders activity entries as one line each.
func LogCompact(w io.Writer, entries []board.LogEntry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %s %s\n", e.Timestamp.Format(time.RFC3339), e.Action, task.ShortID(e.TaskID), e.Detail)
	}
}
