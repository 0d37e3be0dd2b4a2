// Package task holds the task record, its closed enumerations, the partial
// update (Patch) applied by stores, and the markdown file codec.
package task

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
)

// Status is the workflow state of a task.
type Status string

// Statuses in canonical board order.
const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusPaused     Status = "Paused"
	StatusDone       Status = "Done"
)

// DefaultStatus is used when a task has no status or an unknown one.
const DefaultStatus = StatusPending

// Priority is the urgency of a task.
type Priority string

// Priorities in canonical board order.
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// DefaultPriority is used when a task has no priority or an unknown one.
const DefaultPriority = PriorityMedium

// Statuses returns all statuses in canonical order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusPaused, StatusDone}
}

// Priorities returns all priorities in canonical order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Valid reports whether s is one of the closed status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusPaused, StatusDone:
		return true
	default:
		return false
	}
}

// OrDefault returns s, or DefaultStatus when s is empty or unknown.
func (s Status) OrDefault() Status {
	if s.Valid() {
		return s
	}
	return DefaultStatus
}

// Label is the human-facing name of the status.
func (s Status) Label() string {
	if s == StatusInProgress {
		return "In Progress"
	}
	return string(s)
}

// Valid reports whether p is one of the closed priority values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// OrDefault returns p, or DefaultPriority when p is empty or unknown.
func (p Priority) OrDefault() Priority {
	if p.Valid() {
		return p
	}
	return DefaultPriority
}

// ParseStatus accepts the canonical value or a loose spelling such as
// "in progress", "in-progress" or "done".
func ParseStatus(s string) (Status, bool) {
	key := foldEnum(s)
	for _, st := range Statuses() {
		if foldEnum(string(st)) == key {
			return st, true
		}
	}
	return "", false
}

// ParsePriority accepts the canonical value case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	key := foldEnum(s)
	for _, p := range Priorities() {
		if foldEnum(string(p)) == key {
			return p, true
		}
	}
	return "", false
}

func foldEnum(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// Task is a single task record.
type Task struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Status      Status     `yaml:"status,omitempty" json:"status,omitempty"`
	Priority    Priority   `yaml:"priority,omitempty" json:"priority,omitempty"`
	Due         *date.Date `yaml:"due_date,omitempty" json:"due_date,omitempty"`
	Tags        []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	IsCompleted bool       `yaml:"is_completed" json:"is_completed"`
	Created     time.Time  `yaml:"created" json:"created"`
	Updated     time.Time  `yaml:"updated" json:"updated"`
	Completed   *time.Time `yaml:"completed,omitempty" json:"completed,omitempty"`

	// Body is the markdown content below the frontmatter (not in YAML).
	Body string `yaml:"-" json:"body,omitempty"`

	// File is the path to the task file (not in YAML).
	File string `yaml:"-" json:"file,omitempty"`
}

// NewID returns a fresh opaque task identifier.
func NewID() string {
	return uuid.NewString()
}

// ShortID is the prefix of an ID shown in tables and accepted on the CLI.
func ShortID(id string) string {
	const n = 8
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// PrimaryTag returns the first tag, the one used for single-axis tag
// grouping. ok is false when the task has no usable primary tag.
func (t *Task) PrimaryTag() (string, bool) {
	if t == nil || len(t.Tags) == 0 || t.Tags[0] == "" {
		return "", false
	}
	return t.Tags[0], true
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	c := *t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Due != nil {
		d := *t.Due
		c.Due = &d
	}
	if t.Completed != nil {
		ts := *t.Completed
		c.Completed = &ts
	}
	return &c
}

// IsOverdue reports whether the task has a due date before today and is not
// completed.
func (t *Task) IsOverdue(today date.Date) bool {
	return t.Due != nil && t.Due.Before(today) && !t.IsCompleted
}
