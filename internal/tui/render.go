package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/output"
	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

// --- Styles ---

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	dropTargetHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("208")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = cardStyle.
			BorderForeground(lipgloss.Color("226"))

	carriedCardStyle = cardStyle.
				BorderStyle(lipgloss.DoubleBorder()).
				BorderForeground(lipgloss.Color("208"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))

	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	doneStyle    = dimStyle.Strikethrough(true)

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)
)

// tagStyle colors a tag the same way its tag column is colored.
func tagStyle(tag string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(pivot.TagColor(tag)))
}

// --- Layout ---

// chromeHeight returns the number of lines consumed below the column area.
func (b *Board) chromeHeight() int {
	h := boardChrome
	if b.err != nil || b.notice != "" {
		h += messageChrome
	}
	return h
}

func (b *Board) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	w := b.width / len(b.columns)
	const maxColWidth = 60
	if w > maxColWidth {
		w = maxColWidth
	}
	return w
}

// columnAt returns the index of the column under screen column x, or -1.
func (b *Board) columnAt(x int) int {
	if x < 0 {
		return -1
	}
	i := x / b.columnWidth()
	if i >= len(b.columns) {
		return -1
	}
	return i
}

// rowAt returns the index of the card drawn at line y of the card area of
// col, or -1.
func (b *Board) rowAt(col *column, y int) int {
	if y < 0 {
		return -1
	}
	if col.scrollOff > 0 {
		y-- // "more" indicator
	}
	width := b.columnWidth()
	line := 0
	for i := col.scrollOff; i < len(col.Tasks); i++ {
		h := b.cardHeight(col.Tasks[i], width)
		if y < line+h {
			return i
		}
		line += h
	}
	return -1
}

// visibleCardsForColumn returns the number of cards that fit in the column,
// accounting for the scroll indicator lines.
func (b *Board) visibleCardsForColumn(col *column, width int) int {
	budget := b.height - b.chromeHeight()
	if budget < 1 {
		return 1
	}

	avail := budget - 1 // header
	if col.scrollOff > 0 {
		avail--
	}

	n := b.fitCardsInHeight(col, avail, width)
	if col.scrollOff+n < len(col.Tasks) {
		n = max(b.fitCardsInHeight(col, avail-1, width), 1)
	}
	return n
}

// ensureVisible adjusts the active column's scroll offset so the selected
// row is within the visible window.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	w := b.columnWidth()

	for range len(col.Tasks) + 1 {
		maxVis := b.visibleCardsForColumn(col, w)

		switch {
		case b.activeRow >= col.scrollOff+maxVis:
			col.scrollOff = b.activeRow - maxVis + 1
		case b.activeRow < col.scrollOff:
			col.scrollOff = b.activeRow
		default:
			return
		}
	}
}

func (b *Board) fitCardsInHeight(col *column, avail, width int) int {
	if len(col.Tasks) == 0 || avail < 1 {
		return 1
	}

	used, count := 0, 0
	for i := col.scrollOff; i < len(col.Tasks); i++ {
		cardLines := b.cardHeight(col.Tasks[i], width)
		if count > 0 && used+cardLines > avail {
			break
		}
		count++
		used += cardLines
		if used >= avail {
			break
		}
	}
	return max(count, 1)
}

// --- View rendering ---

func (b *Board) viewBoard() string {
	colWidth := b.columnWidth()

	renderedCols := make([]string, len(b.columns))
	for i := range b.columns {
		renderedCols[i] = b.renderColumn(i, &b.columns[i], colWidth)
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)
	if len(b.columns) == 0 {
		boardView = dimStyle.Render("  No columns.")
	}

	// Clamp from the bottom so headers stay visible on tiny terminals.
	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(boardView, "\n") + 1
		if actual > targetHeight {
			viewLines := strings.SplitN(boardView, "\n", targetHeight+1)
			boardView = strings.Join(viewLines[:targetHeight], "\n")
		} else if actual < targetHeight {
			boardView += strings.Repeat("\n", targetHeight-actual)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", b.renderStatusBar())
}

func (b *Board) renderColumn(colIdx int, col *column, width int) string {
	const headerPad = 2
	headerText := fmt.Sprintf("%s (%d)", col.Label, len(col.Tasks))

	var header string
	switch {
	case b.carry != nil && b.carry.target == colIdx:
		header = dropTargetHeaderStyle.Width(width).Render(truncate("▸ "+headerText, width-headerPad))
	case colIdx == b.activeCol:
		header = activeColumnHeaderStyle.Width(width).Render(truncate(headerText, width-headerPad))
	default:
		header = columnHeaderStyle.
			Foreground(lipgloss.Color(col.Color)).
			Width(width).
			Render(truncate(headerText, width-headerPad))
	}

	maxVis := b.visibleCardsForColumn(col, width)
	start := min(col.scrollOff, len(col.Tasks))
	end := min(start+maxVis, len(col.Tasks))

	parts := []string{header}
	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↑ %d more", start), width)))
	}
	if len(col.Tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	}
	for rowIdx := start; rowIdx < end; rowIdx++ {
		t := col.Tasks[rowIdx]
		active := colIdx == b.activeCol && rowIdx == b.activeRow
		parts = append(parts, b.renderCard(t, active, width))
	}
	if end < len(col.Tasks) {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↓ %d more", len(col.Tasks)-end), width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderCard(t *task.Task, active bool, width int) string {
	content := strings.Join(b.cardContentLines(t, width), "\n")

	style := cardStyle
	if tag, ok := t.PrimaryTag(); ok {
		style = style.BorderForeground(lipgloss.Color(pivot.TagColor(tag)))
	}
	switch {
	case b.carry != nil && b.carry.taskID == t.ID:
		style = carriedCardStyle
	case active:
		style = activeCardStyle
	}

	return style.Width(width - 2).Render(content) //nolint:mnd // border width
}

func (b *Board) cardHeight(t *task.Task, width int) int {
	return len(b.cardContentLines(t, width)) + 2 //nolint:mnd // top and bottom borders
}

func (b *Board) cardContentLines(t *task.Task, width int) []string {
	const cardChrome = 4 // border (2) + padding (2)
	cardWidth := max(width-cardChrome, 1)

	titleStyle := lipgloss.NewStyle()
	if t.IsCompleted {
		titleStyle = doneStyle
	}

	var lines []string
	for _, line := range wrapTitle(t.Title, cardWidth, b.cfg.TitleLines()) {
		lines = append(lines, titleStyle.Render(line))
	}

	meta := string(t.Priority.OrDefault())
	if b.pivot != pivot.Status {
		meta = t.Status.OrDefault().Label() + " · " + meta
	}
	metaLine := dimStyle.Render(truncate(meta, cardWidth))
	if t.Due != nil {
		due := "due " + t.Due.String()
		style := dimStyle
		if t.IsOverdue(date.FromTime(b.now())) {
			style = overdueStyle
		}
		if lipgloss.Width(meta)+2+len(due) <= cardWidth {
			metaLine += "  " + style.Render(due)
		}
	}
	lines = append(lines, metaLine)

	if b.cfg.ShowTags() && len(t.Tags) > 0 {
		var tagLine strings.Builder
		used := 0
		for i, tag := range t.Tags {
			label := "#" + tag
			if i > 0 {
				label = " " + label
			}
			if used+lipgloss.Width(label) > cardWidth {
				tagLine.WriteString(dimStyle.Render(" …"))
				break
			}
			tagLine.WriteString(tagStyle(tag).Render(label))
			used += lipgloss.Width(label)
		}
		lines = append(lines, tagLine.String())
	}

	return lines
}

// wrapTitle splits a title across maxLines lines, word-wrapping at word
// boundaries. Each line is at most maxWidth characters.
func wrapTitle(title string, maxWidth, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if lipgloss.Width(title) <= maxWidth || maxLines == 1 {
		return []string{truncate(title, maxWidth)}
	}

	words := strings.Fields(title)
	lines := make([]string, 0, maxLines)
	var current strings.Builder

	for i, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if lipgloss.Width(current.String())+1+lipgloss.Width(word) <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
		} else {
			lines = append(lines, truncate(current.String(), maxWidth))
			current.Reset()
			current.WriteString(word)
			if len(lines) == maxLines-1 {
				// Last line: append all remaining words.
				for _, w := range words[i+1:] {
					current.WriteByte(' ')
					current.WriteString(w)
				}
				break
			}
		}
	}
	if current.Len() > 0 {
		lines = append(lines, truncate(current.String(), maxWidth))
	}
	return lines
}

func (b *Board) renderStatusBar() string {
	title := "by " + b.pivot.Title()
	if !b.pivot.Mutable() {
		title += " (read-only)"
	}
	status := fmt.Sprintf(" %s | %s | %d tasks", b.cfg.Board.Name, title, len(b.tasks))
	if b.pending > 0 {
		status += " | saving..."
	}
	if b.carry != nil {
		status += " | " + helpLine(keys.Left, keys.Drop, keys.Cancel)
	} else {
		status += " | " + helpLine(keys.Left, keys.Up, keys.NextPivot, keys.Grab, keys.Open, keys.Delete, keys.Quit)
	}
	bar := statusBarStyle.Render(truncate(status, b.width))

	switch {
	case b.err != nil:
		return errorStyle.Render(truncate("Error: "+b.err.Error(), b.width)) + "\n" + bar
	case b.notice != "":
		return noticeStyle.Render(truncate(b.notice, b.width)) + "\n" + bar
	}
	return bar
}

func (b *Board) viewDetail() string {
	t := b.findTask(b.detailID)
	if t == nil {
		return dialogStyle.Render("Task no longer exists.\n\n" + dimStyle.Render("enter/q:back"))
	}
	var sb strings.Builder
	output.TaskDetail(&sb, t, b.now())
	return sb.String() + "\n" + dimStyle.Render("enter/q:back")
}

func (b *Board) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  %s: %s", task.ShortID(b.deleteID), b.deleteTitle) + "\n\n" +
		dimStyle.Render("y:yes  n:no")

	return dialogStyle.Render(content)
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
