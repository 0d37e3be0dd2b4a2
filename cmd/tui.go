package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/pivotboard/internal/store"
	"github.com/twiced-technology-gmbh/pivotboard/internal/tui"
	"github.com/twiced-technology-gmbh/pivotboard/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive board",
	Long: `Opens the kanban TUI. Press p/P or 1-6 to switch pivots, space to pick up a
card, h/l to carry it, and space again to drop it. Dropping a card on another
column updates the task; esc cancels the move.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, s, err := openBoard()
	if err != nil {
		return err
	}
	defer s.Close()
	if fs, ok := s.(*store.Files); ok {
		fs.OnWarning = nil // stderr would corrupt the alt screen
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model := tui.NewBoard(ctx, cfg, s)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Board, p *tea.Program) {
	w, err := watcher.New(model.WatchPaths(), func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // no live reload
	}
	defer w.Close()
	w.Run(ctx, nil)
}
