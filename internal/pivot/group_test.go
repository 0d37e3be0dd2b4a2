package pivot

import (
	"slices"
	"testing"

	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

func TestPartitionCompleteness(t *testing.T) {
	tasks := sampleTasks()
	for _, p := range All() {
		t.Run(p.String(), func(t *testing.T) {
			counts := map[string]int{}
			for _, c := range Columns(tasks, p) {
				for _, m := range MembersOf(tasks, p, c.ID) {
					counts[m.ID]++
				}
			}
			for _, tk := range tasks {
				if counts[tk.ID] != 1 {
					t.Errorf("task %s appears %d times", tk.ID, counts[tk.ID])
				}
			}
			if len(counts) != len(tasks) {
				t.Errorf("saw %d distinct tasks, want %d", len(counts), len(tasks))
			}
		})
	}
}

func TestMembersOfPreservesInputOrder(t *testing.T) {
	tasks := []*task.Task{
		{ID: "c", Tags: []string{"x"}},
		{ID: "a", Tags: []string{"y"}},
		{ID: "b", Tags: []string{"x"}},
	}
	got := ids(MembersOf(tasks, Tag, "x"))
	if !slices.Equal(got, []string{"c", "b"}) {
		t.Errorf("members = %v", got)
	}
	if !slices.Equal(ids(tasks), []string{"c", "a", "b"}) {
		t.Error("input reordered")
	}
}

func TestMembersOfUnknownColumnIsEmpty(t *testing.T) {
	got := MembersOf(sampleTasks(), Status, "Archived")
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil", got)
	}
}

func TestGroupMatchesMembersOf(t *testing.T) {
	tasks := sampleTasks()
	for _, p := range All() {
		lanes := Group(tasks, p)
		cols := Columns(tasks, p)
		if len(lanes) != len(cols) {
			t.Fatalf("%s: %d lanes, %d columns", p, len(lanes), len(cols))
		}
		for i, lane := range lanes {
			if lane.Column != cols[i] {
				t.Errorf("%s: lane %d column %+v, want %+v", p, i, lane.Column, cols[i])
			}
			want := ids(MembersOf(tasks, p, lane.ID))
			if !slices.Equal(ids(lane.Tasks), want) {
				t.Errorf("%s/%s: lane %v, members %v", p, lane.ID, ids(lane.Tasks), want)
			}
		}
	}
}

func TestStatusScenario(t *testing.T) {
	tasks := []*task.Task{
		{ID: "1", Status: task.StatusInProgress},
		{ID: "2"},
		{ID: "3", Status: task.StatusDone},
	}
	want := map[string][]string{
		"Pending":    {"2"},
		"InProgress": {"1"},
		"Paused":     {},
		"Done":       {"3"},
	}
	lanes := Group(tasks, Status)
	if got := len(lanes); got != 4 {
		t.Fatalf("lanes = %d", got)
	}
	for _, lane := range lanes {
		if !slices.Equal(ids(lane.Tasks), want[lane.ID]) {
			t.Errorf("%s: %v, want %v", lane.ID, ids(lane.Tasks), want[lane.ID])
		}
	}
}

func TestMonthBucketing(t *testing.T) {
	tasks := []*task.Task{
		{ID: "early", Due: due(2024, 3, 5)},
		{ID: "late", Due: due(2024, 3, 20)},
		{ID: "undated"},
	}
	if Resolve(tasks[0], DateByMonth) != "2024-03" || Resolve(tasks[1], DateByMonth) != "2024-03" {
		t.Fatal("both March tasks should map to 2024-03")
	}
	if Resolve(tasks[2], DateByMonth) != NoneKey {
		t.Fatal("undated task should map to none")
	}
	lanes := Group(tasks, DateByMonth)
	if len(lanes) != 2 {
		t.Fatalf("lanes = %v", len(lanes))
	}
	if lanes[0].Label != "March 2024" || !slices.Equal(ids(lanes[0].Tasks), []string{"early", "late"}) {
		t.Errorf("march lane = %+v %v", lanes[0].Column, ids(lanes[0].Tasks))
	}
	if lanes[1].ID != NoneKey || !slices.Equal(ids(lanes[1].Tasks), []string{"undated"}) {
		t.Errorf("bucket lane = %+v %v", lanes[1].Column, ids(lanes[1].Tasks))
	}
}
