package task

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"Pending", StatusPending, true},
		{"in progress", StatusInProgress, true},
		{"in-progress", StatusInProgress, true},
		{"IN_PROGRESS", StatusInProgress, true},
		{"done", StatusDone, true},
		{"archived", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDefaults(t *testing.T) {
	if Status("").OrDefault() != StatusPending {
		t.Error("empty status should default to Pending")
	}
	if Status("bogus").OrDefault() != StatusPending {
		t.Error("unknown status should default to Pending")
	}
	if Priority("").OrDefault() != PriorityMedium {
		t.Error("empty priority should default to Medium")
	}
	if p, ok := ParsePriority("low"); !ok || p != PriorityLow {
		t.Errorf("ParsePriority(low) = %q, %v", p, ok)
	}
}

func TestPrimaryTag(t *testing.T) {
	if _, ok := (&Task{}).PrimaryTag(); ok {
		t.Error("no tags should have no primary tag")
	}
	if _, ok := (&Task{Tags: []string{""}}).PrimaryTag(); ok {
		t.Error("empty first tag should not count")
	}
	tag, ok := (&Task{Tags: []string{"a", "b"}}).PrimaryTag()
	if !ok || tag != "a" {
		t.Errorf("PrimaryTag = %q, %v", tag, ok)
	}
}

func TestCloneIsDeep(t *testing.T) {
	due := date.New(2024, time.March, 5)
	orig := &Task{ID: "a", Tags: []string{"x"}, Due: &due}
	c := orig.Clone()
	c.Tags[0] = "y"
	*c.Due = date.New(2025, time.January, 1)
	if orig.Tags[0] != "x" || orig.Due.DayKey() != "2024-03-05" {
		t.Error("Clone shares memory with original")
	}
}

func TestIsOverdue(t *testing.T) {
	today := date.New(2024, time.March, 5)
	past := date.New(2024, time.March, 4)
	tk := &Task{Due: &past}
	if !tk.IsOverdue(today) {
		t.Error("expected overdue")
	}
	tk.IsCompleted = true
	if tk.IsOverdue(today) {
		t.Error("completed task should not be overdue")
	}
	if (&Task{}).IsOverdue(today) {
		t.Error("task without due date should not be overdue")
	}
}
