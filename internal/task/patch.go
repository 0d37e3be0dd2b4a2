package task

import (
	"slices"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
)

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title       *string    `json:"title,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	IsCompleted *bool      `json:"is_completed,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Tags        *[]string  `json:"tags,omitempty"`
	Due         *date.Date `json:"due_date,omitempty"`
	ClearDue    bool       `json:"clear_due_date,omitempty"`
	Body        *string    `json:"body,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Status == nil && p.IsCompleted == nil &&
		p.Priority == nil && p.Tags == nil && p.Due == nil && !p.ClearDue && p.Body == nil
}

// Fields lists the names of the fields the patch sets, for activity logs.
func (p Patch) Fields() []string {
	var f []string
	if p.Title != nil {
		f = append(f, "title")
	}
	if p.Status != nil {
		f = append(f, "status")
	}
	if p.IsCompleted != nil {
		f = append(f, "is_completed")
	}
	if p.Priority != nil {
		f = append(f, "priority")
	}
	if p.Tags != nil {
		f = append(f, "tags")
	}
	if p.Due != nil || p.ClearDue {
		f = append(f, "due_date")
	}
	if p.Body != nil {
		f = append(f, "body")
	}
	return f
}

// Validate rejects enumeration values outside the closed sets.
func (p Patch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return ValidateStatus(string(*p.Status))
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return ValidatePriority(string(*p.Priority))
	}
	return nil
}

// ApplyPatch applies p to t in place and reports whether anything changed.
// Tags are normalized; a change of is_completed stamps or clears Completed.
// Updated is set to now only when something changed.
func ApplyPatch(t *Task, p Patch, now time.Time) bool {
	changed := false
	if p.Title != nil && *p.Title != t.Title {
		t.Title = *p.Title
		changed = true
	}
	if p.Status != nil && *p.Status != t.Status {
		t.Status = *p.Status
		changed = true
	}
	if p.Priority != nil && *p.Priority != t.Priority {
		t.Priority = *p.Priority
		changed = true
	}
	if p.Tags != nil {
		tags := NormalizeTags(*p.Tags)
		if !slices.Equal(tags, t.Tags) {
			t.Tags = tags
			changed = true
		}
	}
	if p.ClearDue && t.Due != nil {
		t.Due = nil
		changed = true
	}
	if p.Due != nil && (t.Due == nil || !t.Due.Equal(p.Due.Time)) {
		d := *p.Due
		t.Due = &d
		changed = true
	}
	if p.Body != nil && *p.Body != t.Body {
		t.Body = *p.Body
		changed = true
	}
	if p.IsCompleted != nil && *p.IsCompleted != t.IsCompleted {
		setCompletion(t, *p.IsCompleted, now)
		changed = true
	}
	if changed {
		t.Updated = now
	}
	return changed
}

// NormalizeTags trims tags, drops empty ones and keeps only the first
// occurrence of each. Order is otherwise preserved. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// ReplacePrimaryTag returns a new tag list with the primary tag removed and,
// when primary is non-empty, primary prepended in its place. The remaining
// tags keep their relative order; a later occurrence of primary is dropped
// so the list stays duplicate-free. tags is not modified.
func ReplacePrimaryTag(tags []string, primary string) []string {
	rest := tags
	if len(rest) > 0 {
		rest = rest[1:]
	}
	out := make([]string, 0, len(rest)+1)
	if primary != "" {
		out = append(out, primary)
	}
	for _, tag := range rest {
		if primary != "" && tag == primary {
			continue
		}
		out = append(out, tag)
	}
	return out
}
