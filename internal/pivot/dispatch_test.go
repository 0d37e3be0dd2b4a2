package pivot

import (
	"slices"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

func strPtr(s string) *string { return &s }

func TestDispatchSameColumnIsNoOp(t *testing.T) {
	for _, tk := range sampleTasks() {
		for _, p := range All() {
			if patch, ok := Dispatch(tk, p, Resolve(tk, p)); ok {
				t.Errorf("task %s pivot %s: unexpected patch %+v", tk.ID, p, patch)
			}
		}
	}
}

func TestDispatchStatusCouplesCompletion(t *testing.T) {
	tk := &task.Task{ID: "1", Status: task.StatusInProgress}

	patch, ok := Dispatch(tk, Status, "Done")
	if !ok {
		t.Fatal("expected patch")
	}
	if *patch.Status != task.StatusDone || !*patch.IsCompleted {
		t.Errorf("patch = status %s completed %v", *patch.Status, *patch.IsCompleted)
	}
	if patch.Priority != nil || patch.Tags != nil {
		t.Error("status patch touched other fields")
	}

	done := &task.Task{ID: "2", Status: task.StatusDone, IsCompleted: true}
	patch, ok = Dispatch(done, Status, "Pending")
	if !ok {
		t.Fatal("expected patch")
	}
	if *patch.Status != task.StatusPending || *patch.IsCompleted {
		t.Errorf("patch = status %s completed %v", *patch.Status, *patch.IsCompleted)
	}
}

func TestDispatchPriority(t *testing.T) {
	tk := &task.Task{ID: "1"}
	patch, ok := Dispatch(tk, Priority, "High")
	if !ok || *patch.Priority != task.PriorityHigh {
		t.Fatalf("patch = %+v, ok = %v", patch, ok)
	}
	if patch.Status != nil || patch.IsCompleted != nil || patch.Tags != nil {
		t.Error("priority patch has side effects")
	}

	// Medium is the default column, so dropping an unset task there is a no-op.
	if _, ok := Dispatch(tk, Priority, "Medium"); ok {
		t.Error("expected no-op for default column")
	}
}

func TestDispatchRejectsInvalidDestination(t *testing.T) {
	tk := &task.Task{ID: "1"}
	if _, ok := Dispatch(tk, Status, "Archived"); ok {
		t.Error("unknown status column accepted")
	}
	if _, ok := Dispatch(tk, Priority, "Critical"); ok {
		t.Error("unknown priority column accepted")
	}
	if _, ok := Dispatch(tk, Tag, ""); ok {
		t.Error("empty tag column accepted")
	}
	tagged := &task.Task{ID: "2", Tags: []string{"urgent", "client-x"}}
	if _, ok := Dispatch(tagged, Tag, "   "); ok {
		t.Error("blank tag column accepted")
	}
	if _, ok := OnDragEnd(tagged, Tag, DragEnd{TaskID: "2", Destination: strPtr("\t")}); ok {
		t.Error("blank drag destination accepted")
	}
	if _, ok := Dispatch(nil, Status, "Done"); ok {
		t.Error("nil task accepted")
	}
}

func TestDispatchTag(t *testing.T) {
	tk := &task.Task{ID: "1", Tags: []string{"urgent", "client-x", "q3"}}

	patch, ok := Dispatch(tk, Tag, "planning")
	if !ok {
		t.Fatal("expected patch")
	}
	if want := []string{"planning", "client-x", "q3"}; !slices.Equal(*patch.Tags, want) {
		t.Errorf("tags = %v, want %v", *patch.Tags, want)
	}

	patch, ok = Dispatch(tk, Tag, "none")
	if !ok {
		t.Fatal("expected patch")
	}
	if want := []string{"client-x", "q3"}; !slices.Equal(*patch.Tags, want) {
		t.Errorf("tags = %v, want %v", *patch.Tags, want)
	}

	if !slices.Equal(tk.Tags, []string{"urgent", "client-x", "q3"}) {
		t.Errorf("task tags mutated: %v", tk.Tags)
	}
}

func TestDispatchTagNeverDuplicates(t *testing.T) {
	tk := &task.Task{ID: "1", Tags: []string{"urgent", "client-x", "q3"}}
	patch, ok := Dispatch(tk, Tag, "q3")
	if !ok {
		t.Fatal("expected patch")
	}
	if want := []string{"q3", "client-x"}; !slices.Equal(*patch.Tags, want) {
		t.Errorf("tags = %v, want %v", *patch.Tags, want)
	}
}

func TestDispatchTagFromBucket(t *testing.T) {
	tk := &task.Task{ID: "1"}
	patch, ok := Dispatch(tk, Tag, "planning")
	if !ok || !slices.Equal(*patch.Tags, []string{"planning"}) {
		t.Fatalf("patch = %+v, ok = %v", patch, ok)
	}
	if _, ok := Dispatch(tk, Tag, "none"); ok {
		t.Error("untagged task dropped on bucket should be a no-op")
	}
}

func TestDispatchDatePivotsAreReadOnly(t *testing.T) {
	tk := &task.Task{ID: "1", Due: due(2024, time.March, 5)}
	for _, p := range []Pivot{DateByDay, DateByMonth, DateByYear} {
		for _, dest := range []string{"2024-04-01", "2024-04", "2025", "none"} {
			if patch, ok := Dispatch(tk, p, dest); ok {
				t.Errorf("%s -> %s: unexpected patch %+v", p, dest, patch)
			}
		}
		if p.Mutable() {
			t.Errorf("%s reported as mutable", p)
		}
	}
}

func TestOnDragEnd(t *testing.T) {
	tk := &task.Task{ID: "1", Status: task.StatusPending}

	if _, ok := OnDragEnd(tk, Status, DragEnd{TaskID: "1", Source: "Pending"}); ok {
		t.Error("cancelled drag produced a patch")
	}
	if _, ok := OnDragEnd(tk, Status, DragEnd{TaskID: "1", Source: "Paused", Destination: strPtr("Paused")}); ok {
		t.Error("drop on source column produced a patch")
	}
	patch, ok := OnDragEnd(tk, Status, DragEnd{TaskID: "1", Source: "Pending", Destination: strPtr("Done")})
	if !ok || *patch.Status != task.StatusDone || !*patch.IsCompleted {
		t.Errorf("patch = %+v, ok = %v", patch, ok)
	}
}

func TestDispatchedPatchMovesTaskToDestination(t *testing.T) {
	for _, p := range []Pivot{Status, Priority, Tag} {
		for _, tk := range sampleTasks() {
			for _, c := range Columns(sampleTasks(), p) {
				patch, ok := Dispatch(tk, p, c.ID)
				if !ok {
					continue
				}
				moved := tk.Clone()
				task.ApplyPatch(moved, patch, time.Now())
				if p == Tag && c.ID == NoneKey {
					// The next tag, if any, becomes primary.
					if !slices.Equal(moved.Tags, tk.Tags[1:]) {
						t.Errorf("tag: task %s dropped on none has tags %v, want %v", tk.ID, moved.Tags, tk.Tags[1:])
					}
					continue
				}
				if got := Resolve(moved, p); got != c.ID {
					t.Errorf("%s: task %s dropped on %s resolved to %s", p, tk.ID, c.ID, got)
				}
			}
		}
	}
}
