package task

import "time"

// StatusPatch builds the patch for a status transition. Completion is derived
// from the target status: moving to Done completes the task, moving anywhere
// else reopens it.
func StatusPatch(s Status) Patch {
	completed := s == StatusDone
	return Patch{Status: &s, IsCompleted: &completed}
}

// setCompletion flips IsCompleted and keeps the Completed timestamp in step.
//   - Completing stamps Completed with now.
//   - Reopening clears Completed.
func setCompletion(t *Task, completed bool, now time.Time) {
	t.IsCompleted = completed
	if completed {
		t.Completed = &now
		return
	}
	t.Completed = nil
}
