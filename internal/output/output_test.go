package output

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/pivotboard/internal/board"
	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

func init() {
	DisableColor()
}

var now = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func sample() []*task.Task {
	due := date.New(2024, time.March, 5)
	return []*task.Task{
		{ID: "0a1b2c3d-0000-4000-8000-000000000001", Title: "Write report", Status: task.StatusInProgress,
			Priority: task.PriorityHigh, Due: &due, Tags: []string{"urgent", "client-x"}},
		{ID: "0a1b2c3d-0000-4000-8000-000000000002", Title: "Book venue"},
	}
}

func TestDetect(t *testing.T) {
	t.Setenv("PIVOTBOARD_OUTPUT", "")
	if Detect(true, true, true) != FormatJSON {
		t.Error("json flag should win")
	}
	if Detect(false, true, true) != FormatCompact {
		t.Error("compact beats table")
	}
	if Detect(false, false, false) != FormatTable {
		t.Error("default is table")
	}
	t.Setenv("PIVOTBOARD_OUTPUT", "json")
	if Detect(false, false, false) != FormatJSON {
		t.Error("env not honored")
	}
}

func TestTaskCompact(t *testing.T) {
	var buf bytes.Buffer
	TaskCompact(&buf, sample())
	want := "0a1b2c3d [InProgress/High] Write report (urgent, client-x) due:2024-03-05\n" +
		"0a1b2c3d [Pending/Medium] Book venue\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestBoardCompact(t *testing.T) {
	var buf bytes.Buffer
	BoardCompact(&buf, board.Project(sample(), pivot.Status))
	want := "Pending (1): 0a1b2c3d\nIn Progress (1): 0a1b2c3d\nPaused (0)\nDone (0)\n"
	if buf.String() != want {
		t.Errorf("got:\n%s", buf.String())
	}
}

func TestBoardTableShowsEveryColumn(t *testing.T) {
	var buf bytes.Buffer
	BoardTable(&buf, board.Project(sample(), pivot.Tag))
	out := buf.String()
	for _, label := range []string{"Board by Tag", "urgent (1)", "Uncategorized (1)"} {
		if !strings.Contains(out, label) {
			t.Errorf("missing %q in:\n%s", label, out)
		}
	}

	buf.Reset()
	BoardTable(&buf, board.Project(sample(), pivot.DateByMonth))
	if !strings.Contains(buf.String(), "(read-only)") || !strings.Contains(buf.String(), "March 2024 (1)") {
		t.Errorf("date board:\n%s", buf.String())
	}
}

func TestTaskTableMarksOverdue(t *testing.T) {
	var buf bytes.Buffer
	TaskTable(&buf, sample(), now)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[1], "2024-03-05 !") {
		t.Errorf("table:\n%s", buf.String())
	}
	if !strings.Contains(lines[1], "In Progress") || !strings.Contains(lines[2], "Pending") {
		t.Errorf("status labels:\n%s", buf.String())
	}
}

func TestTaskDetailRendersBody(t *testing.T) {
	tk := sample()[0]
	tk.Body = "# Notes\n\nCall the **client**.\n"
	var buf bytes.Buffer
	TaskDetail(&buf, tk, now)
	out := buf.String()
	if !strings.Contains(out, "Task 0a1b2c3d: Write report") || !strings.Contains(out, "Notes") || !strings.Contains(out, "client") {
		t.Errorf("detail:\n%s", out)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(50 * time.Hour); got != "2d 2h" {
		t.Errorf("got %q", got)
	}
	if got := FormatDuration(90 * time.Minute); got != "1h 30m" {
		t.Errorf("got %q", got)
	}
}

func TestNewBatchResult(t *testing.T) {
	ok := NewBatchResult("a1", nil)
	if !ok.OK || ok.Error != "" {
		t.Errorf("success = %+v", ok)
	}

	coded := NewBatchResult("a2", fmt.Errorf("wrapped: %w", task.NotFound("a2")))
	if coded.OK || coded.Code != clierr.TaskNotFound {
		t.Errorf("coded = %+v", coded)
	}

	plain := NewBatchResult("a3", errors.New("disk full"))
	if plain.OK || plain.Code != "" || plain.Error != "disk full" {
		t.Errorf("plain = %+v", plain)
	}
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, errors.New("boom"))
	if !strings.Contains(buf.String(), `"code": "INTERNAL_ERROR"`) {
		t.Errorf("envelope = %s", buf.String())
	}
}

func TestLogRenderers(t *testing.T) {
	entries := []board.LogEntry{
		{Timestamp: now, Action: "move", TaskID: "0a1b2c3d-0000-4000-8000-000000000001", Detail: "status: Pending -> Done"},
	}

	var buf bytes.Buffer
	LogCompact(&buf, entries)
	if got := buf.String(); got != "2024-03-10T12:00:00Z move 0a1b2c3d status: Pending -> Done\n" {
		t.Errorf("compact = %q", got)
	}

	buf.Reset()
	LogTable(&buf, entries)
	if !strings.Contains(buf.String(), "0a1b2c3d") || !strings.Contains(buf.String(), "Pending -> Done") {
		t.Errorf("table = %q", buf.String())
	}

	buf.Reset()
	LogTable(&buf, nil)
	if !strings.Contains(buf.String(), "No activity.") {
		t.Errorf("empty table = %q", buf.String())
	}
}
