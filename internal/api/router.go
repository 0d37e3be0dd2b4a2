// Package api serves the board over HTTP: task CRUD, pivot projections and
// the drag endpoint that mirrors a drop in the TUI.
package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/twiced-technology-gmbh/pivotboard/internal/config"
	"github.com/twiced-technology-gmbh/pivotboard/internal/store"
)

// Handler holds the dependencies shared by all routes.
type Handler struct {
	store     store.Store
	boardName string
	logDir    string
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandler builds a Handler over s. Mutations are recorded in the
// activity log of cfg's board directory.
func NewHandler(s store.Store, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		store:     s,
		boardName: cfg.Board.Name,
		logDir:    cfg.Dir(),
		logger:    logger,
		now:       time.Now,
	}
}

// NewRouter creates the chi router with all routes and middleware.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(h.logger))
	r.Use(Recovery(h.logger))

	r.Get("/health", h.Health)
	r.Get("/summary", h.Summary)
	r.Get("/activity", h.Activity)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Get("/{id}", h.GetTask)
		r.Patch("/{id}", h.UpdateTask)
		r.Delete("/{id}", h.DeleteTask)
	})

	r.Route("/board", func(r chi.Router) {
		r.Get("/", h.Board)
		r.Post("/drag", h.Drag)
	})

	return r
}
