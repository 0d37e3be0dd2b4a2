package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
)

// ValidateStatus returns a coded error for a status outside the closed set.
func ValidateStatus(status string) *clierr.Error {
	return clierr.Newf(clierr.InvalidStatus, "invalid status %q", status).
		WithDetails(map[string]any{
			"status":  status,
			"allowed": statusNames(),
		})
}

// ValidatePriority returns a coded error for a priority outside the closed set.
func ValidatePriority(priority string) *clierr.Error {
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", priority).
		WithDetails(map[string]any{
			"priority": priority,
			"allowed":  priorityNames(),
		})
}

// ValidateDate returns a coded error for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateTaskID rejects an empty or whitespace-only ID argument.
func ValidateTaskID(input string) error {
	if strings.TrimSpace(input) == "" {
		return clierr.New(clierr.InvalidTaskID, "task ID must not be empty")
	}
	return nil
}

// ValidateTitle rejects an empty title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return clierr.New(clierr.InvalidInput, "title is required")
	}
	return nil
}

// NotFound returns the coded error for a missing task.
func NotFound(id string) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
		WithDetails(map[string]any{"id": id})
}

// Ambiguous returns the coded error for an ID prefix that matches several tasks.
func Ambiguous(prefix string, matches []string) *clierr.Error {
	return clierr.Newf(clierr.AmbiguousTaskID, "task ID %q is ambiguous (%d matches)", prefix, len(matches)).
		WithDetails(map[string]any{"id": prefix, "matches": matches})
}

func statusNames() []string {
	names := make([]string, 0, len(Statuses()))
	for _, s := range Statuses() {
		names = append(names, string(s))
	}
	return names
}

func priorityNames() []string {
	names := make([]string, 0, len(Priorities()))
	for _, p := range Priorities() {
		names = append(names, string(p))
	}
	return names
}

// ValidateNewID rejects a caller-chosen ID that cannot prefix a task
// filename.
func ValidateNewID(id string) error {
	if err := ValidateTaskID(id); err != nil {
		return err
	}
	if strings.ContainsAny(id, filenameSep+`/\. `) {
		return clierr.Newf(clierr.InvalidTaskID, "task ID %q may not contain '_', '/', '\\', '.' or spaces", id).
			WithDetails(map[string]any{"id": id})
	}
	return nil
}
