// Package tui implements a terminal kanban for pivotboard boards. Columns
// are derived from the active pivot; moving a card between columns is
// translated into a task update.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/pivotboard/internal/board"
	"github.com/twiced-technology-gmbh/pivotboard/internal/config"
	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/store"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewDetail
	viewConfirmDelete
)

// Layout constants.
const (
	boardChrome    = 2 // blank line + status bar below the column area
	messageChrome  = 1 // extra line when an error or notice is displayed
	doubleClickGap = 500 * time.Millisecond
)

// Board is the top-level bubbletea model.
type Board struct {
	ctx   context.Context
	cfg   *config.Config
	store store.Store

	// pivot is owned by the view; the store never sees it.
	pivot     pivot.Pivot
	tasks     []*task.Task
	columns   []column
	activeCol int
	activeRow int
	view      view
	width     int
	height    int
	err       error
	notice    string
	now       func() time.Time

	// carry is the card being moved, nil when no move is in progress.
	carry *carry

	// Moves sent to the store and not yet confirmed. Reloads arriving in
	// the meantime are deferred until the count drops to zero.
	pending      int
	reloadQueued bool

	detailID    string
	deleteID    string
	deleteTitle string

	lastClickCol  int
	lastClickRow  int
	lastClickTime time.Time
}

// column is one pivot lane plus its scroll position.
type column struct {
	pivot.Lane
	scrollOff int // first visible row index
}

// NewBoard creates a Board showing the store's tasks under the configured
// default pivot. Tasks are loaded by Init.
func NewBoard(ctx context.Context, cfg *config.Config, s store.Store) *Board {
	b := &Board{
		ctx:   ctx,
		cfg:   cfg,
		store: s,
		pivot: cfg.DefaultPivot(),
		now:   time.Now,
	}
	b.regroup("")
	return b
}

// SetNow overrides the clock used for optimistic updates and due dates.
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// Pivot returns the active pivot.
func (b *Board) Pivot() pivot.Pivot { return b.pivot }

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return b.loadCmd()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.clampRow()
		return b, nil
	case ReloadMsg:
		return b, b.loadCmd()
	case loadedMsg:
		return b, b.handleLoaded(msg)
	case persistedMsg:
		return b, b.handlePersisted(msg)
	case deletedMsg:
		if msg.err != nil {
			b.err = fmt.Errorf("deleting task %s: %w", task.ShortID(msg.id), msg.err)
		}
		return b, b.loadCmd()
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewDetail:
		return b.viewDetail()
	case viewConfirmDelete:
		return b.viewDeleteConfirm()
	default:
		return b.viewBoard()
	}
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return b, tea.Quit
	}
	b.err = nil
	b.notice = ""

	switch b.view {
	case viewDetail:
		if key.Matches(msg, keys.Open, keys.Quit) {
			b.view = viewBoard
		}
		return b, nil
	case viewConfirmDelete:
		return b.handleDeleteKey(msg)
	}

	if b.carry != nil {
		return b, b.handleCarryKey(msg)
	}
	return b.handleBoardKey(msg)
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, keys.Left):
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case key.Matches(msg, keys.Right):
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case key.Matches(msg, keys.Down):
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.Tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case key.Matches(msg, keys.Up):
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case key.Matches(msg, keys.NextPivot):
		b.SetPivot(b.pivot.Next())
	case key.Matches(msg, keys.PrevPivot):
		b.SetPivot(b.pivot.Prev())
	case key.Matches(msg, keys.PickPivot):
		all := pivot.All()
		if i := int(msg.String()[0] - '1'); i >= 0 && i < len(all) {
			b.SetPivot(all[i])
		}
	case key.Matches(msg, keys.Grab):
		b.grab(false)
	case key.Matches(msg, keys.Open):
		if t := b.selectedTask(); t != nil {
			b.detailID = t.ID
			b.view = viewDetail
		}
	case key.Matches(msg, keys.Delete):
		if t := b.selectedTask(); t != nil {
			b.deleteID = t.ID
			b.deleteTitle = t.Title
			b.view = viewConfirmDelete
		}
	}
	return b, nil
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Confirm):
		b.view = viewBoard
		return b, b.deleteCmd(b.deleteID, b.deleteTitle)
	case key.Matches(msg, keys.Deny):
		b.view = viewBoard
	}
	return b, nil
}

// handleMouse selects cards on click and moves them on press-drag-release.
// Releasing outside every column cancels the move.
func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if b.view != viewBoard {
		return b, nil
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		if b.carry != nil && b.carry.mouse {
			b.carry.target = b.columnAt(msg.X)
		}
		return b, nil
	case tea.MouseActionRelease:
		if b.carry == nil || !b.carry.mouse {
			return b, nil
		}
		b.carry.target = b.columnAt(msg.X)
		return b, b.drop()
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return b, nil
		}
	default:
		return b, nil
	}

	clickedCol := b.columnAt(msg.X)
	if clickedCol < 0 {
		return b, nil
	}
	b.activeCol = clickedCol
	clickedRow := b.rowAt(&b.columns[clickedCol], msg.Y-1)
	if clickedRow < 0 {
		b.clampRow()
		return b, nil
	}

	now := b.now()
	isDoubleClick := clickedCol == b.lastClickCol &&
		clickedRow == b.lastClickRow &&
		now.Sub(b.lastClickTime) < doubleClickGap

	b.activeRow = clickedRow
	b.lastClickCol = clickedCol
	b.lastClickRow = clickedRow
	b.lastClickTime = now
	b.ensureVisible()

	if isDoubleClick {
		b.detailID = b.selectedTask().ID
		b.view = viewDetail
		return b, nil
	}
	b.grab(true)
	return b, nil
}

// SetPivot switches the board to p. A move in progress is abandoned.
func (b *Board) SetPivot(p pivot.Pivot) {
	if b.carry != nil {
		b.cancel()
	}
	var selected string
	if t := b.selectedTask(); t != nil {
		selected = t.ID
	}
	b.pivot = p
	b.activeCol, b.activeRow = 0, 0
	for i := range b.columns {
		b.columns[i].scrollOff = 0
	}
	b.regroup(selected)
}

// regroup rebuilds the columns from b.tasks under the active pivot and
// selects the task selectID when it is still on the board.
func (b *Board) regroup(selectID string) {
	offsets := make(map[string]int, len(b.columns))
	for _, c := range b.columns {
		offsets[c.ID] = c.scrollOff
	}

	lanes := pivot.Group(b.tasks, b.pivot)
	b.columns = make([]column, len(lanes))
	for i, lane := range lanes {
		off := offsets[lane.ID]
		if off >= len(lane.Tasks) {
			off = max(len(lane.Tasks)-1, 0)
		}
		b.columns[i] = column{Lane: lane, scrollOff: off}
	}

	if ci, ri, ok := b.locate(selectID); ok {
		b.activeCol, b.activeRow = ci, ri
	}
	if b.activeCol >= len(b.columns) {
		b.activeCol = max(len(b.columns)-1, 0)
	}
	b.clampRow()
}

func (b *Board) locate(id string) (col, row int, ok bool) {
	if id == "" {
		return 0, 0, false
	}
	for ci, c := range b.columns {
		for ri, t := range c.Tasks {
			if t.ID == id {
				return ci, ri, true
			}
		}
	}
	return 0, 0, false
}

func (b *Board) findTask(id string) *task.Task {
	for _, t := range b.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() *task.Task {
	col := b.currentColumn()
	if col == nil || len(col.Tasks) == 0 {
		return nil
	}
	if b.activeRow >= 0 && b.activeRow < len(col.Tasks) {
		return col.Tasks[b.activeRow]
	}
	return nil
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.Tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.Tasks) {
		b.activeRow = len(col.Tasks) - 1
	}
	b.ensureVisible()
}

// WatchPaths returns the paths that should be watched for store changes.
func (b *Board) WatchPaths() []string {
	return b.cfg.WatchPaths()
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

type loadedMsg struct {
	tasks []*task.Task
	err   error
}

type persistedMsg struct {
	id   string
	task *task.Task
	err  error
}

type deletedMsg struct {
	id  string
	err error
}

func (b *Board) loadCmd() tea.Cmd {
	ctx, s := b.ctx, b.store
	return func() tea.Msg {
		tasks, err := s.List(ctx)
		return loadedMsg{tasks: tasks, err: err}
	}
}

func (b *Board) deleteCmd(id, title string) tea.Cmd {
	ctx, s, dir := b.ctx, b.store, b.cfg.Dir()
	return func() tea.Msg {
		if err := s.Delete(ctx, id); err != nil {
			return deletedMsg{id: id, err: err}
		}
		board.LogMutation(dir, "delete", id, title)
		return deletedMsg{id: id}
	}
}

func (b *Board) handleLoaded(msg loadedMsg) tea.Cmd {
	if b.pending > 0 {
		b.reloadQueued = true
		return nil
	}
	if msg.err != nil {
		b.err = msg.err
		return nil
	}
	var selected string
	if t := b.selectedTask(); t != nil {
		selected = t.ID
	}
	tasks := msg.tasks
	board.Sort(tasks, "priority", false)
	b.tasks = tasks
	if b.carry != nil && b.findTask(b.carry.taskID) == nil {
		b.carry = nil
	}
	b.regroup(selected)
	return nil
}

// handlePersisted reconciles an optimistic move with the store's answer.
// On failure the board is reloaded so the card returns to where the store
// has it.
func (b *Board) handlePersisted(msg persistedMsg) tea.Cmd {
	b.pending--
	if msg.err != nil {
		b.err = fmt.Errorf("moving task %s: %w", task.ShortID(msg.id), msg.err)
		b.reloadQueued = true
	} else {
		for i, t := range b.tasks {
			if t.ID == msg.task.ID {
				b.tasks[i] = msg.task
				break
			}
		}
		var selected string
		if t := b.selectedTask(); t != nil {
			selected = t.ID
		}
		b.regroup(selected)
	}
	if b.pending == 0 && b.reloadQueued {
		b.reloadQueued = false
		return b.loadCmd()
	}
	return nil
}
