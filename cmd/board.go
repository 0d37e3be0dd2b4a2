package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/pivotboard/internal/board"
	"github.com/twiced-technology-gmbh/pivotboard/internal/config"
	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/output"
	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/store"
	"github.com/twiced-technology-gmbh/pivotboard/internal/watcher"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the board under a pivot",
	Long: `Prints the board's columns and their tasks for the chosen pivot, or with
--summary the task counts per status and priority plus overdue, untagged and
undated counts.

Use --watch to keep the display live-updating. The board re-renders whenever
the store changes on disk (e.g., from another terminal or the HTTP API).
Press Ctrl+C to stop.`,
	RunE: runBoard,
}

var (
	boardPivot    pivot.Pivot
	boardPivotSet *pivotValue
)

func init() {
	boardPivotSet = addPivotFlag(boardCmd.Flags(), &boardPivot)
	boardCmd.Flags().Bool("summary", false, "print counts instead of columns")
	boardCmd.Flags().BoolP("watch", "w", false, "live-update the board on store changes")
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, _ []string) error {
	cfg, s, err := openBoard()
	if err != nil {
		return err
	}
	defer s.Close()

	p := cfg.DefaultPivot()
	if boardPivotSet.set {
		p = boardPivot
	}
	summary, _ := cmd.Flags().GetBool("summary")

	if err := renderBoard(cmd.Context(), cfg, s, p, summary); err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); !watch {
		return nil
	}
	return watchBoard(cfg, s, p, summary)
}

func renderBoard(ctx context.Context, cfg *config.Config, s store.Store, p pivot.Pivot, summary bool) error {
	tasks, err := s.List(ctx)
	if err != nil {
		return err
	}

	format := outputFormat()
	if summary {
		overview := board.Summary(cfg.Board.Name, tasks, date.FromTime(time.Now()))
		switch format {
		case output.FormatJSON:
			return output.JSON(os.Stdout, overview)
		case output.FormatCompact:
			output.OverviewCompact(os.Stdout, overview)
		default:
			output.OverviewTable(os.Stdout, overview)
		}
		return nil
	}

	view := board.Project(tasks, p)
	switch format {
	case output.FormatJSON:
		return output.JSON(os.Stdout, view)
	case output.FormatCompact:
		output.BoardCompact(os.Stdout, view)
	default:
		output.BoardTable(os.Stdout, view)
	}
	return nil
}

func watchBoard(cfg *config.Config, s store.Store, p pivot.Pivot, summary bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(cfg.WatchPaths(), func() {
		clearScreen()
		if renderErr := renderBoard(ctx, cfg, s, p, summary); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering board: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})

	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
