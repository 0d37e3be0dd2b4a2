package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
	"github.com/twiced-technology-gmbh/pivotboard/internal/filelock"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

// Files stores one markdown file per task in a directory. Writers take an
// advisory lock on the directory so concurrent CLI invocations, the TUI and
// the HTTP server do not interleave.
type Files struct {
	dir string

	// OnWarning receives files skipped by List because they failed to parse.
	OnWarning func(task.ReadWarning)

	now func() time.Time
}

// NewFiles returns a store over the tasks directory dir.
func NewFiles(dir string) *Files {
	return &Files{dir: dir, now: time.Now}
}

// Dir returns the tasks directory.
func (s *Files) Dir() string { return s.dir }

// List reads every task, skipping malformed files, ordered by creation time.
func (s *Files) List(ctx context.Context) ([]*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tasks, warnings, err := task.ReadAllLenient(s.dir)
	if err != nil {
		return nil, err
	}
	if s.OnWarning != nil {
		for _, w := range warnings {
			s.OnWarning(w)
		}
	}
	sortByCreated(tasks)
	return tasks, nil
}

// Get reads one task.
func (s *Files) Get(ctx context.Context, id string) (*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := task.FindByID(s.dir, id)
	if err != nil {
		return nil, err
	}
	return task.Read(path)
}

// Create writes a new task file.
func (s *Files) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := prepareNew(t, s.now()); err != nil {
		return nil, err
	}
	err := s.locked(func() error {
		if s.exists(t.ID) {
			return clierr.Newf(clierr.InvalidTaskID, "task %s already exists", t.ID).
				WithDetails(map[string]any{"id": t.ID})
		}
		t.File = s.pathFor(t)
		return task.Write(t.File, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies p to the task and rewrites its file. The file is renamed
// when the title, and so the slug, changes. A patch that changes nothing
// leaves the file untouched.
func (s *Files) Update(ctx context.Context, id string, p task.Patch) (*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var updated *task.Task
	err := s.locked(func() error {
		path, err := task.FindByID(s.dir, id)
		if err != nil {
			return err
		}
		t, err := task.Read(path)
		if err != nil {
			return err
		}
		if !task.ApplyPatch(t, p, s.now()) {
			updated = t
			return nil
		}

		newPath := s.pathFor(t)
		if err := task.Write(newPath, t); err != nil {
			return err
		}
		if newPath != path {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("removing old task file: %w", err)
			}
		}
		t.File = newPath
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the task file.
func (s *Files) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.locked(func() error {
		path, err := task.FindByID(s.dir, id)
		if err != nil {
			return err
		}
		return os.Remove(path)
	})
}

// Close is a no-op.
func (s *Files) Close() error { return nil }

func (s *Files) locked(fn func() error) error {
	if _, err := os.Stat(s.dir); err != nil {
		return clierr.Newf(clierr.StoreUnavailable, "tasks directory unavailable: %v", err).
			WithDetails(map[string]any{"dir": s.dir})
	}
	return filelock.With(filepath.Join(s.dir, filelock.Name), fn)
}

func (s *Files) pathFor(t *task.Task) string {
	return filepath.Join(s.dir, task.GenerateFilename(t.ID, task.GenerateSlug(t.Title)))
}

func (s *Files) exists(id string) bool {
	path, err := task.FindByID(s.dir, id)
	return err == nil && task.IDFromFilename(filepath.Base(path)) == id
}

func sortByCreated(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].Created.Equal(tasks[j].Created) {
			return tasks[i].Created.Before(tasks[j].Created)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
