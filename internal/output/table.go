package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/pivotboard/internal/board"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	overdueMark = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// Status colors aligned with the board column palette.
	statusStyles = map[string]lipgloss.Style{
		string(task.StatusPending):    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		string(task.StatusInProgress): lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		string(task.StatusPaused):     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		string(task.StatusDone):       lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	priorityStyles = map[string]lipgloss.Style{
		string(task.PriorityHigh):   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		string(task.PriorityMedium): lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		string(task.PriorityLow):    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	tagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
)

// DisableColor strips all styling from table output.
func DisableColor() {
	colorEnabled = false
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	boldStyle = lipgloss.NewStyle()
	overdueMark = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
	tagStyle = lipgloss.NewStyle()
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task, today time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, statusW, prioW, titleW, tagsW, dueW := 10, 8, 10, 5, 6, 12
	for _, t := range tasks {
		statusW = max(statusW, len(t.Status.OrDefault().Label())+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50))                 //nolint:mnd // max title column width
		tagsW = max(tagsW, min(len(strings.Join(t.Tags, ","))+pad, 30)) //nolint:mnd // max tags column width
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s",
		idW, "ID", statusW, "STATUS", prioW, "PRIORITY",
		titleW, "TITLE", tagsW, "TAGS", dueW, "DUE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		title := truncate(t.Title, 48) //nolint:mnd // title column width minus padding
		tags := strings.Join(t.Tags, ",")
		if tags == "" {
			tags = dimStyle.Render("--")
		} else {
			tags = tagStyle.Render(tags)
		}

		row := fmt.Sprintf("%-*s %s %s %s %s %s",
			idW, task.ShortID(t.ID),
			padRight(statusValue(t.Status), statusW),
			padRight(styledValue(string(t.Priority.OrDefault()), priorityStyles), prioW),
			padRight(title, titleW),
			padRight(tags, tagsW),
			dueDisplay(t, today))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. The body is rendered
// as markdown.
func TaskDetail(w io.Writer, t *task.Task, today time.Time) {
	titleLine := fmt.Sprintf("Task %s: %s", task.ShortID(t.ID), t.Title)
	fmt.Fprintln(w, boldStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "ID", t.ID)
	printField(w, "Status", statusValue(t.Status))
	printField(w, "Priority", styledValue(string(t.Priority.OrDefault()), priorityStyles))
	if len(t.Tags) > 0 {
		printField(w, "Tags", tagStyle.Render(strings.Join(t.Tags, ", ")))
	} else {
		printField(w, "Tags", dimStyle.Render("--"))
	}
	printField(w, "Due", dueDisplay(t, today))
	printField(w, "Completed", strconv.FormatBool(t.IsCompleted))
	printField(w, "Created", t.Created.Local().Format("2006-01-02 15:04"))
	printField(w, "Updated", t.Updated.Local().Format("2006-01-02 15:04"))
	if t.Completed != nil {
		printField(w, "Done at", t.Completed.Local().Format("2006-01-02 15:04"))
		printField(w, "Lead time", FormatDuration(t.Completed.Sub(t.Created)))
	}

	if strings.TrimSpace(t.Body) != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, Markdown(t.Body, defaultWrap))
	}
}

// OverviewTable renders a board summary as a formatted dashboard.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintln(w, boldStyle.Render(s.BoardName))
	fmt.Fprintf(w, "Total: %d tasks, %d completed, %d overdue\n\n", s.TotalTasks, s.Completed, s.Overdue)

	const colW = 16
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s %6s %8s", "STATUS", "COUNT", "OVERDUE")))
	for _, sc := range s.Statuses {
		fmt.Fprintf(w, "%s %6d %8d\n", padRight(statusValue(sc.Status), colW), sc.Count, sc.Overdue)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s %6s", "PRIORITY", "COUNT")))
	for _, pc := range s.Priorities {
		fmt.Fprintf(w, "%s %6d\n", padRight(styledValue(string(pc.Priority), priorityStyles), colW), pc.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %d   %s %d\n", dimStyle.Render("untagged:"), s.Untagged, dimStyle.Render("undated:"), s.Undated)
}

// BoardTable renders a pivot projection, one section per column. Columns
// are drawn with their own color; empty columns are kept so the column set
// stays visible.
func BoardTable(w io.Writer, v board.View) {
	title := "Board by " + v.Pivot.Title()
	if !v.Mutable {
		title += dimStyle.Render(" (read-only)")
	}
	fmt.Fprintln(w, boldStyle.Render(title))

	for _, c := range v.Columns {
		fmt.Fprintln(w)
		heading := lipgloss.NewStyle().Bold(true)
		if colorEnabled {
			heading = heading.Foreground(lipgloss.Color(c.Color))
		}
		fmt.Fprintf(w, "%s %s\n", heading.Render(c.Label), dimStyle.Render("("+strconv.Itoa(c.Count)+")"))
		if len(c.Tasks) == 0 {
			fmt.Fprintln(w, "  "+dimStyle.Render("--"))
			continue
		}
		for _, t := range c.Tasks {
			line := "  " + padRight(dimStyle.Render(task.ShortID(t.ID)), 10) + t.Title //nolint:mnd // short id width
			if len(t.Tags) > 0 {
				line += " " + tagStyle.Render("["+strings.Join(t.Tags, ", ")+"]")
			}
			fmt.Fprintln(w, line)
		}
	}
}

// LogTable renders activity entries, oldest first.
func LogTable(w io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No activity.")
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s  %-7s  %-8s  %s", "TIME", "ACTION", "TASK", "DETAIL")))
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-7s  %-8s  %s\n",
			dimStyle.Render(e.Timestamp.Local().Format("2006-01-02 15:04")), e.Action, task.ShortID(e.TaskID), e.Detail)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// FormatDuration renders a duration as human-readable "Xd Yh" or "Xh Ym".
func FormatDuration(d time.Duration) string {
	const hoursPerDay = 24
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if days > 0 {
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	}
	minutes := int(d.Minutes()) % 60 //nolint:mnd // 60 minutes per hour
	return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func dueDisplay(t *task.Task, today time.Time) string {
	if t.Due == nil {
		return dimStyle.Render("--")
	}
	if t.IsOverdue(dateOf(today)) {
		return overdueMark.Render(t.Due.String() + " !")
	}
	return t.Due.String()
}

func statusValue(s task.Status) string {
	s = s.OrDefault()
	if st, ok := statusStyles[string(s)]; ok {
		return st.Render(s.Label())
	}
	return s.Label()
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
