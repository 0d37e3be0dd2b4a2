package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/twiced-technology-gmbh/pivotboard/internal/board"
	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

var errNegative = errors.New("must not be negative")

// HealthResponse reports whether the store is reachable.
type HealthResponse struct {
	Status  string `json:"status"`
	Tasks   int    `json:"tasks"`
	Message string `json:"message,omitempty"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Tasks: len(tasks)})
}

// Summary handles GET /summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board.Summary(h.boardName, tasks, date.FromTime(h.now())))
}

// Activity handles GET /activity. limit caps the number of newest entries
// returned, oldest first.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n < 0 {
			err = errNegative
		}
		if err != nil {
			h.writeError(w, r, badQuery("limit", v, err))
			return
		}
		limit = n
	}
	entries, err := board.ReadLog(h.logDir, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []board.LogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListTasks handles GET /tasks. Query parameters mirror the list command:
// status, priority (comma-separated), tag, q, overdue, completed, sort,
// reverse and limit.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	opts, err := h.listOptions(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	tasks, err := board.List(r.Context(), h.store, opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) listOptions(r *http.Request) (board.ListOptions, error) {
	q := r.URL.Query()
	opts := board.ListOptions{
		Filter: board.FilterOptions{
			Tag:    q.Get("tag"),
			Search: q.Get("q"),
			Today:  date.FromTime(h.now()),
		},
		SortBy: q.Get("sort"),
	}
	if err := board.ValidateSortField(opts.SortBy); err != nil {
		return opts, err
	}
	for _, s := range splitList(q.Get("status")) {
		st, ok := task.ParseStatus(s)
		if !ok {
			return opts, task.ValidateStatus(s)
		}
		opts.Filter.Statuses = append(opts.Filter.Statuses, st)
	}
	for _, s := range splitList(q.Get("priority")) {
		p, ok := task.ParsePriority(s)
		if !ok {
			return opts, task.ValidatePriority(s)
		}
		opts.Filter.Priorities = append(opts.Filter.Priorities, p)
	}
	for name, dst := range map[string]*bool{"overdue": &opts.Filter.Overdue, "reverse": &opts.Reverse} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, badQuery(name, v, err)
			}
			*dst = b
		}
	}
	if v := q.Get("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, badQuery("completed", v, err)
		}
		opts.Filter.Completed = &b
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, badQuery("limit", v, err)
		}
		opts.Limit = n
	}
	return opts, nil
}

// createRequest is the body of POST /tasks.
type createRequest struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Status   task.Status   `json:"status"`
	Priority task.Priority `json:"priority"`
	Tags     []string      `json:"tags"`
	Due      *date.Date    `json:"due_date"`
	Body     string        `json:"body"`
}

// CreateTask handles POST /tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.store.Create(r.Context(), &task.Task{
		ID: req.ID, Title: req.Title, Status: req.Status, Priority: req.Priority,
		Tags: req.Tags, Due: req.Due, Body: req.Body,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	board.LogMutation(h.logDir, "create", t.ID, t.Title)
	writeJSON(w, http.StatusCreated, t)
}

// GetTask handles GET /tasks/{id}; the detail view of a clicked card.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateTask handles PATCH /tasks/{id} with a task patch body. A status in
// the patch also sets is_completed unless the body sets it explicitly.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var p task.Patch
	if err := decodeJSON(w, r, &p); err != nil {
		h.writeError(w, r, err)
		return
	}
	if p.Status != nil && p.IsCompleted == nil {
		p.IsCompleted = task.StatusPatch(*p.Status).IsCompleted
	}
	t, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if fields := p.Fields(); len(fields) > 0 {
		board.LogMutation(h.logDir, "edit", t.ID, "set "+strings.Join(fields, ", "))
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.store.Delete(r.Context(), t.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	board.LogMutation(h.logDir, "delete", t.ID, t.Title)
	w.WriteHeader(http.StatusNoContent)
}

// Board handles GET /board?pivot=. The pivot defaults to status.
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	p := pivot.Status
	if v := r.URL.Query().Get("pivot"); v != "" {
		parsed, err := pivot.Parse(v)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		p = parsed
	}
	tasks, err := h.store.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board.Project(tasks, p))
}

// dragRequest is the body of POST /board/drag. A null destination is a drop
// outside any column.
type dragRequest struct {
	Pivot pivot.Pivot `json:"pivot"`
	pivot.DragEnd
}

// Drag handles POST /board/drag. The response reports whether the task
// changed; a no-op drop is not an error.
func (h *Handler) Drag(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := task.ValidateTaskID(req.TaskID); err != nil {
		h.writeError(w, r, err)
		return
	}
	m, err := board.Drop(r.Context(), h.store, h.logDir, req.Pivot, req.DragEnd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
