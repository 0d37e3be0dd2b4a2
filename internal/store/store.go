// Package store persists tasks. Two backends share the Store interface:
// markdown files with YAML frontmatter, and a SQLite database.
package store

import (
	"context"
	"time"

	"github.com/twiced-technology-gmbh/pivotboard/internal/config"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

// Store is the task collection behind every view.
//
// Update is the only write the board needs: it applies a partial patch and
// returns the stored result. Get and Update accept a full ID or a unique
// prefix of at least four characters.
type Store interface {
	List(ctx context.Context) ([]*task.Task, error)
	Get(ctx context.Context, id string) (*task.Task, error)
	Create(ctx context.Context, t *task.Task) (*task.Task, error)
	Update(ctx context.Context, id string, p task.Patch) (*task.Task, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open returns the store selected by cfg.Store.Driver.
func Open(cfg *config.Config) (Store, error) {
	if cfg.Store.Driver == config.DriverSQLite {
		return OpenSQLite(cfg.StorePath())
	}
	return NewFiles(cfg.TasksPath()), nil
}

// prepareNew validates a task about to be created and fills in the fields
// the store owns: ID, timestamps, normalized tags and completion.
func prepareNew(t *task.Task, now time.Time) error {
	if err := task.ValidateTitle(t.Title); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = task.NewID()
	} else if err := task.ValidateNewID(t.ID); err != nil {
		return err
	}
	if t.Status != "" && !t.Status.Valid() {
		return task.ValidateStatus(string(t.Status))
	}
	if t.Priority != "" && !t.Priority.Valid() {
		return task.ValidatePriority(string(t.Priority))
	}
	t.Tags = task.NormalizeTags(t.Tags)
	if t.Status == task.StatusDone {
		t.IsCompleted = true
	}
	if t.Created.IsZero() {
		t.Created = now
	}
	t.Updated = now
	if t.IsCompleted && t.Completed == nil {
		t.Completed = &now
	}
	return nil
}
