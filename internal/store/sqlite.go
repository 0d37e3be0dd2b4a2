package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT '',
  priority TEXT NOT NULL DEFAULT '',
  due_date TEXT,
  tags TEXT,
  is_completed INTEGER NOT NULL DEFAULT 0,
  body TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  completed_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
`

const taskColumns = `id, title, status, priority, due_date, tags, is_completed, body, created_at, updated_at, completed_at`

// SQLite stores tasks in a single table. Tags are a JSON array column.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite creates or opens the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, clierr.Newf(clierr.StoreUnavailable, "open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1) // SQLite handles one writer at a time

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, clierr.Newf(clierr.StoreUnavailable, "init schema: %v", err).
			WithDetails(map[string]any{"path": path})
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// List returns every task ordered by creation time.
func (s *SQLite) List(ctx context.Context) ([]*task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Get returns one task by ID or unique prefix.
func (s *SQLite) Get(ctx context.Context, id string) (*task.Task, error) {
	return getTask(ctx, s.db, id)
}

// Create inserts a new task.
func (s *SQLite) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	if err := prepareNew(t, s.now()); err != nil {
		return nil, err
	}
	row, err := toRow(t)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, string(t.Status), string(t.Priority), row.due, row.tags,
		t.IsCompleted, t.Body, row.created, row.updated, row.completed)
	if err != nil {
		var existing *task.Task
		if existing, _ = getTask(ctx, s.db, t.ID); existing != nil && existing.ID == t.ID {
			return nil, clierr.Newf(clierr.InvalidTaskID, "task %s already exists", t.ID).
				WithDetails(map[string]any{"id": t.ID})
		}
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// Update applies p inside a transaction and returns the stored task.
func (s *SQLite) Update(ctx context.Context, id string, p task.Patch) (*task.Task, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	t, err := getTask(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !task.ApplyPatch(t, p, s.now()) {
		return t, nil
	}

	row, err := toRow(t)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE tasks SET title = ?, status = ?, priority = ?, due_date = ?, tags = ?,
		   is_completed = ?, body = ?, updated_at = ?, completed_at = ?
		 WHERE id = ?`,
		t.Title, string(t.Status), string(t.Priority), row.due, row.tags,
		t.IsCompleted, t.Body, row.updated, row.completed, t.ID)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

// Delete removes a task by ID or unique prefix.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	t, err := getTask(ctx, s.db, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, t.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// getTask resolves id exactly, then as a prefix of at least four characters.
func getTask(ctx context.Context, q querier, id string) (*task.Task, error) {
	if err := task.ValidateTaskID(id); err != nil {
		return nil, err
	}
	t, err := scanTask(q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if len(id) < 4 { //nolint:mnd // minimum prefix length, as for task files
		return nil, task.NotFound(id)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE substr(id, 1, ?) = ? ORDER BY id LIMIT 10`, len(id), id)
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	defer rows.Close()

	var matches []*task.Task
	for rows.Next() {
		m, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, task.NotFound(id)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, task.Ambiguous(id, ids)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (*task.Task, error) {
	var (
		t                task.Task
		status, priority string
		due, tags        sql.NullString
		created, updated int64
		completed        sql.NullInt64
	)
	err := sc.Scan(&t.ID, &t.Title, &status, &priority, &due, &tags,
		&t.IsCompleted, &t.Body, &created, &updated, &completed)
	if err != nil {
		return nil, err
	}

	t.Status = task.Status(status)
	t.Priority = task.Priority(priority)
	if due.Valid && due.String != "" {
		// An unparseable stored date reads as no due date.
		if d, err := date.Parse(due.String); err == nil {
			t.Due = &d
		}
	}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &t.Tags); err != nil {
			return nil, clierr.Newf(clierr.StoreUnavailable, "task %s: corrupt tags column: %v", t.ID, err).
				WithDetails(map[string]any{"id": t.ID})
		}
	}
	t.Created = time.UnixMilli(created).UTC()
	t.Updated = time.UnixMilli(updated).UTC()
	if completed.Valid {
		ts := time.UnixMilli(completed.Int64).UTC()
		t.Completed = &ts
	}
	return &t, nil
}

type taskRow struct {
	due       sql.NullString
	tags      string
	created   int64
	updated   int64
	completed sql.NullInt64
}

func toRow(t *task.Task) (taskRow, error) {
	tags, err := json.Marshal(task.NormalizeTags(t.Tags))
	if err != nil {
		return taskRow{}, fmt.Errorf("encode tags: %w", err)
	}
	r := taskRow{
		tags:    string(tags),
		created: t.Created.UnixMilli(),
		updated: t.Updated.UnixMilli(),
	}
	if t.Due != nil {
		r.due = sql.NullString{String: t.Due.String(), Valid: true}
	}
	if t.Completed != nil {
		r.completed = sql.NullInt64{Int64: t.Completed.UnixMilli(), Valid: true}
	}
	return r, nil
}
