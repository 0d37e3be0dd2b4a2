package tui

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/pivotboard/internal/config"
	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

var testNow = time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

// memStore is an in-memory store.Store.
type memStore struct {
	mu        sync.Mutex
	tasks     map[string]*task.Task
	updates   []task.Patch
	updateErr error
}

func newMemStore(tasks ...*task.Task) *memStore {
	s := &memStore{tasks: make(map[string]*task.Task)}
	for _, t := range tasks {
		s.tasks[t.ID] = t.Clone()
	}
	return s
}

func (s *memStore) List(context.Context) ([]*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	slices.SortFunc(out, func(a, b *task.Task) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *memStore) Get(_ context.Context, id string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, task.NotFound(id)
	}
	return t.Clone(), nil
}

func (s *memStore) Create(_ context.Context, t *task.Task) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t.Clone()
	return t, nil
}

func (s *memStore) Update(_ context.Context, id string, p task.Patch) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, p)
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	t, ok := s.tasks[id]
	if !ok {
		return nil, task.NotFound(id)
	}
	task.ApplyPatch(t, p, testNow)
	return t.Clone(), nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return task.NotFound(id)
	}
	delete(s.tasks, id)
	return nil
}

func (s *memStore) Close() error { return nil }

func sampleTasks() []*task.Task {
	d := date.New(2024, time.March, 10)
	return []*task.Task{
		{ID: "aaaa0001", Title: "Write docs", Status: task.StatusPending, Priority: task.PriorityHigh, Tags: []string{"docs"}, Due: &d},
		{ID: "aaaa0002", Title: "Fix login", Status: task.StatusInProgress, Priority: task.PriorityMedium, Tags: []string{"bug", "auth"}},
		{ID: "aaaa0003", Title: "Ship release", Status: task.StatusDone, Priority: task.PriorityLow, IsCompleted: true},
	}
}

func newTestBoard(t *testing.T, s *memStore) *Board {
	t.Helper()
	cfg := config.NewDefault("test")
	cfg.SetDir(t.TempDir())
	b := NewBoard(context.Background(), cfg, s)
	b.SetNow(func() time.Time { return testNow })
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	run(b, b.Init())
	return b
}

// run executes cmd and feeds its message back into the board.
func run(b *Board, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	_, next := b.Update(cmd())
	return next
}

func press(b *Board, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = b.Update(msg)
	}
	return cmd
}

func columnOf(b *Board, id string) string {
	ci, _, ok := b.locate(id)
	if !ok {
		return ""
	}
	return b.columns[ci].ID
}

func TestLoadGroupsByDefaultPivot(t *testing.T) {
	b := newTestBoard(t, newMemStore(sampleTasks()...))

	var ids []string
	for _, c := range b.columns {
		ids = append(ids, c.ID)
	}
	want := []string{"Pending", "InProgress", "Paused", "Done"}
	if !slices.Equal(ids, want) {
		t.Fatalf("columns = %v, want %v", ids, want)
	}
	if got := columnOf(b, "aaaa0002"); got != "InProgress" {
		t.Errorf("aaaa0002 in %q, want InProgress", got)
	}
	if got := b.selectedTask(); got == nil || got.ID != "aaaa0001" {
		t.Errorf("selected = %v, want aaaa0001", got)
	}
}

func TestPivotSwitching(t *testing.T) {
	b := newTestBoard(t, newMemStore(sampleTasks()...))

	press(b, "p")
	if b.Pivot() != pivot.Priority {
		t.Fatalf("after p: pivot = %v, want priority", b.Pivot())
	}
	press(b, "P")
	if b.Pivot() != pivot.Status {
		t.Fatalf("after P: pivot = %v, want status", b.Pivot())
	}
	press(b, "6")
	if b.Pivot() != pivot.Tag {
		t.Fatalf("after 6: pivot = %v, want tag", b.Pivot())
	}
	last := b.columns[len(b.columns)-1]
	if last.ID != pivot.NoneKey || len(last.Tasks) != 1 || last.Tasks[0].ID != "aaaa0003" {
		t.Errorf("bucket column = %+v, want only aaaa0003", last)
	}
}

func TestKeyboardMoveIsOptimistic(t *testing.T) {
	s := newMemStore(sampleTasks()...)
	b := newTestBoard(t, s)

	press(b, "space", "l", "l", "l")
	if b.carry == nil || b.carry.target != 3 {
		t.Fatalf("carry = %+v, want target 3", b.carry)
	}
	cmd := press(b, "space")
	if cmd == nil {
		t.Fatal("expected persist command")
	}

	// Reflected before the store answers.
	if got := columnOf(b, "aaaa0001"); got != "Done" {
		t.Fatalf("aaaa0001 in %q, want Done", got)
	}
	if got := b.findTask("aaaa0001"); !got.IsCompleted {
		t.Error("reflected task should be completed")
	}
	if b.pending != 1 {
		t.Errorf("pending = %d, want 1", b.pending)
	}
	if len(s.updates) != 0 {
		t.Fatal("store updated before command ran")
	}

	run(b, cmd)
	if b.pending != 0 {
		t.Errorf("pending = %d, want 0", b.pending)
	}
	if len(s.updates) != 1 || *s.updates[0].Status != task.StatusDone {
		t.Fatalf("updates = %+v, want one status Done", s.updates)
	}
	stored, _ := s.Get(context.Background(), "aaaa0001")
	if stored.Status != task.StatusDone || !stored.IsCompleted {
		t.Errorf("stored = %+v", stored)
	}
}

func TestCancelledMoveLeavesTaskAlone(t *testing.T) {
	s := newMemStore(sampleTasks()...)
	b := newTestBoard(t, s)

	press(b, "space", "l")
	if cmd := press(b, "esc"); cmd != nil {
		t.Error("cancel should not produce a command")
	}
	if b.carry != nil {
		t.Error("carry should be cleared")
	}
	if got := columnOf(b, "aaaa0001"); got != "Pending" {
		t.Errorf("aaaa0001 in %q, want Pending", got)
	}
	if len(s.updates) != 0 {
		t.Errorf("updates = %d, want 0", len(s.updates))
	}
}

func TestCancelOnReadOnlyPivotIsQuiet(t *testing.T) {
	s := newMemStore(sampleTasks()...)
	b := newTestBoard(t, s)

	press(b, "3")
	if b.Pivot() != pivot.DateByDay {
		t.Fatalf("pivot = %v, want day", b.Pivot())
	}
	press(b, "space", "l", "esc")
	if b.carry != nil || b.notice != "" {
		t.Errorf("carry = %+v, notice = %q", b.carry, b.notice)
	}
	if len(s.updates) != 0 {
		t.Errorf("updates = %d, want 0", len(s.updates))
	}
}

func TestDropOnSourceColumnIsNoop(t *testing.T) {
	s := newMemStore(sampleTasks()...)
	b := newTestBoard(t, s)

	if cmd := press(b, "space", "space"); cmd != nil {
		t.Error("same-column drop should not produce a command")
	}
	if len(s.updates) != 0 {
		t.Errorf("updates = %d, want 0", len(s.updates))
	}
}

func TestDatePivotIsReadOnly(t *testing.T) {
	s := newMemStore(sampleTasks()...)
	b := newTestBoard(t, s)
	b.SetPivot(pivot.DateByDay)

	press(b, "space", "l")
	if cmd := press(b, "space"); cmd != nil {
		t.Error("date pivot drop should not produce a command")
	}
	if !strings.Contains(b.notice, "read-only") {
		t.Errorf("notice = %q, want read-only hint", b.notice)
	}
	if len(s.updates) != 0 {
		t.Errorf("updates = %d, want 0", len(s.updates))
	}
	if !strings.Contains(b.renderStatusBar(), "(read-only)") {
		t.Error("status bar should mark the pivot read-only")
	}
}

func TestTagMoveReplacesPrimaryTag(t *testing.T) {
	s := newMemStore(sampleTasks()...)
	b := newTestBoard(t, s)
	b.SetPivot(pivot.Tag)

	// Only primary tags form columns: bug, docs, none.
	ci, ri, ok := b.locate("aaaa0002")
	if !ok {
		t.Fatal("aaaa0002 not on board")
	}
	b.activeCol, b.activeRow = ci, ri
	press(b, "space")
	b.carry.target = pivot.ColumnIndex(columnsOf(b), "docs")
	run(b, press(b, "space"))

	stored, _ := s.Get(context.Background(), "aaaa0002")
	if !slices.Equal(stored.Tags, []string{"docs", "auth"}) {
		t.Errorf("tags = %v, want [docs auth]", stored.Tags)
	}
}

func columnsOf(b *Board) []pivot.Column {
	cols := make([]pivot.Column, len(b.columns))
	for i, c := range b.columns {
		cols[i] = c.Column
	}
	return cols
}

func TestFailedPersistReconciles(t *testing.T) {
	s := newMemStore(sampleTasks()...)
	s.updateErr = errors.New("disk full")
	b := newTestBoard(t, s)

	cmd := press(b, "space", "l", "space")
	if got := columnOf(b, "aaaa0001"); got != "InProgress" {
		t.Fatalf("optimistic column = %q, want InProgress", got)
	}

	reload := run(b, cmd)
	if reload == nil {
		t.Fatal("expected reload after failed persist")
	}
	if b.err == nil || !strings.Contains(b.err.Error(), "disk full") {
		t.Errorf("err = %v, want disk full", b.err)
	}
	run(b, reload)
	if got := columnOf(b, "aaaa0001"); got != "Pending" {
		t.Errorf("after reload column = %q, want Pending", got)
	}
}

func TestReloadDeferredWhileSaving(t *testing.T) {
	s := newMemStore(sampleTasks()...)
	b := newTestBoard(t, s)

	persist := press(b, "space", "l", "space")
	stale, _ := s.List(context.Background())
	b.Update(loadedMsg{tasks: stale})
	if got := columnOf(b, "aaaa0001"); got != "InProgress" {
		t.Fatalf("stale reload applied: column = %q", got)
	}
	if !b.reloadQueued {
		t.Fatal("reload should be queued")
	}
	if next := run(b, persist); next == nil {
		t.Error("queued reload should run once saves finish")
	}
}

func TestMouseReleaseOutsideCancels(t *testing.T) {
	s := newMemStore(sampleTasks()...)
	b := newTestBoard(t, s)

	b.Update(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if b.carry == nil || !b.carry.mouse {
		t.Fatalf("carry = %+v, want mouse carry", b.carry)
	}
	b.Update(tea.MouseMsg{X: 500, Y: 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if b.carry.target != -1 {
		t.Errorf("target = %d, want -1", b.carry.target)
	}
	_, cmd := b.Update(tea.MouseMsg{X: 500, Y: 1, Action: tea.MouseActionRelease})
	if cmd != nil || b.carry != nil {
		t.Error("release outside columns should cancel")
	}
	if len(s.updates) != 0 {
		t.Errorf("updates = %d, want 0", len(s.updates))
	}
}

func TestMouseDragMovesCard(t *testing.T) {
	s := newMemStore(sampleTasks()...)
	b := newTestBoard(t, s)

	x := b.columnWidth()*2 + 1
	b.Update(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	_, cmd := b.Update(tea.MouseMsg{X: x, Y: 3, Action: tea.MouseActionRelease})
	if cmd == nil {
		t.Fatal("expected persist command")
	}
	if got := columnOf(b, "aaaa0001"); got != "Paused" {
		t.Errorf("column = %q, want Paused", got)
	}
}

func TestDeleteConfirm(t *testing.T) {
	s := newMemStore(sampleTasks()...)
	b := newTestBoard(t, s)

	press(b, "d")
	if b.view != viewConfirmDelete {
		t.Fatalf("view = %v, want confirm", b.view)
	}
	run(b, run(b, press(b, "y")))
	if _, err := s.Get(context.Background(), "aaaa0001"); err == nil {
		t.Error("task should be deleted")
	}
	if b.findTask("aaaa0001") != nil {
		t.Error("board should drop the deleted task")
	}
}

func TestDetailView(t *testing.T) {
	b := newTestBoard(t, newMemStore(sampleTasks()...))

	press(b, "enter")
	if b.view != viewDetail {
		t.Fatalf("view = %v, want detail", b.view)
	}
	if !strings.Contains(b.View(), "Write docs") {
		t.Error("detail view should show the title")
	}
	press(b, "q")
	if b.view != viewBoard {
		t.Errorf("view = %v, want board", b.view)
	}
}

func TestViewRendersColumns(t *testing.T) {
	b := newTestBoard(t, newMemStore(sampleTasks()...))
	out := b.View()
	for _, want := range []string{"Pending (1)", "In Progress (1)", "Done (1)", "by Status"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestWatchPaths(t *testing.T) {
	cfg := config.NewDefault("test")
	cfg.SetDir("/b/kanban")
	b := NewBoard(context.Background(), cfg, newMemStore())
	got := b.WatchPaths()
	want := []string{"/b/kanban/tasks", "/b/kanban"}
	if !slices.Equal(got, want) {
		t.Errorf("WatchPaths = %v, want %v", got, want)
	}

	cfg.Store.Driver = config.DriverSQLite
	cfg.Store.Path = "/data/board.db"
	got = b.WatchPaths()
	want = []string{"/b/kanban/tasks", "/b/kanban", "/data"}
	if !slices.Equal(got, want) {
		t.Errorf("WatchPaths (sqlite) = %v, want %v", got, want)
	}
}

func TestWrapTitle(t *testing.T) {
	tests := []struct {
		title    string
		width    int
		maxLines int
		want     []string
	}{
		{"short", 20, 2, []string{"short"}},
		{"one two three four", 9, 2, []string{"one two", "three ..."}},
		{"one two three", 9, 1, []string{"one tw..."}},
	}
	for _, tt := range tests {
		got := wrapTitle(tt.title, tt.width, tt.maxLines)
		if !slices.Equal(got, tt.want) {
			t.Errorf("wrapTitle(%q, %d, %d) = %q, want %q", tt.title, tt.width, tt.maxLines, got, tt.want)
		}
	}
}
