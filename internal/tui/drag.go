package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/pivotboard/internal/board"
	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

// carry is a card picked up and not yet dropped.
type carry struct {
	taskID string
	source string // column ID the card was picked up from
	target int    // index of the column under the card, -1 when outside
	mouse  bool
}

// grab picks up the selected card.
func (b *Board) grab(mouse bool) {
	t := b.selectedTask()
	if t == nil {
		return
	}
	b.carry = &carry{
		taskID: t.ID,
		source: b.columns[b.activeCol].ID,
		target: b.activeCol,
		mouse:  mouse,
	}
}

func (b *Board) handleCarryKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Cancel):
		b.cancel()
	case key.Matches(msg, keys.Drop):
		return b.drop()
	case key.Matches(msg, keys.Left):
		if b.carry.target > 0 {
			b.carry.target--
		}
	case key.Matches(msg, keys.Right):
		if b.carry.target < len(b.columns)-1 {
			b.carry.target++
		}
	}
	return nil
}

// drop ends the move over the current target column.
func (b *Board) drop() tea.Cmd {
	c := b.carry
	b.carry = nil
	ev := pivot.DragEnd{TaskID: c.taskID, Source: c.source}
	if c.target >= 0 && c.target < len(b.columns) {
		dest := b.columns[c.target].ID
		ev.Destination = &dest
	}
	return b.dragEnd(ev)
}

// cancel drops the carried card back where it was. Nothing is persisted.
func (b *Board) cancel() {
	b.carry = nil
}

// dragEnd applies a finished gesture. The board is updated at once and the
// patch is sent to the store in the background.
func (b *Board) dragEnd(ev pivot.DragEnd) tea.Cmd {
	t := b.findTask(ev.TaskID)
	patch, ok := pivot.OnDragEnd(t, b.pivot, ev)
	if !ok {
		if ev.Destination != nil && *ev.Destination != ev.Source && !b.pivot.Mutable() {
			b.notice = b.pivot.Title() + " is read-only"
		}
		return nil
	}

	detail := fmt.Sprintf("%s: %s -> %s", b.pivot, ev.Source, *ev.Destination)
	b.tasks = board.Reflect(b.tasks, ev.TaskID, patch, b.now())
	b.regroup(ev.TaskID)
	b.pending++
	return b.persistCmd(ev.TaskID, patch, detail)
}

func (b *Board) persistCmd(id string, p task.Patch, detail string) tea.Cmd {
	ctx, s, dir := b.ctx, b.store, b.cfg.Dir()
	return func() tea.Msg {
		t, err := board.Persist(ctx, s, dir, id, p, detail)
		return persistedMsg{id: id, task: t, err: err}
	}
}
