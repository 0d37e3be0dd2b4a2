package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/pivotboard/internal/board"
	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
	"github.com/twiced-technology-gmbh/pivotboard/internal/config"
	"github.com/twiced-technology-gmbh/pivotboard/internal/output"
	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/store"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

var moveCmd = &cobra.Command{
	Use:   "move ID[,ID,...] [COLUMN]",
	Short: "Move a task to another column",
	Long: `Moves a task to a column of the given pivot, exactly as dropping its card
there in the TUI would:

  status    sets the status; Done completes the task, others reopen it
  priority  sets the priority
  tag       replaces the primary tag; "none" removes it

Date pivots are read-only. Use --next/--prev to move one column along the
pivot's column order. Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runMove,
}

var (
	movePivot    pivot.Pivot
	movePivotSet *pivotValue
)

func init() {
	movePivotSet = addPivotFlag(moveCmd.Flags(), &movePivot)
	moveCmd.Flags().Bool("next", false, "move to the next column")
	moveCmd.Flags().Bool("prev", false, "move to the previous column")
	moveCmd.MarkFlagsMutuallyExclusive("next", "prev")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	cfg, s, err := openBoard()
	if err != nil {
		return err
	}
	defer s.Close()

	p := cfg.DefaultPivot()
	if movePivotSet.set {
		p = movePivot
	}
	if !p.Mutable() {
		return clierr.Newf(clierr.InvalidPivot, "pivot %q is read-only", p).
			WithDetails(map[string]any{"pivot": p.String()})
	}

	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")
	step := 0
	switch {
	case next:
		step = 1
	case prev:
		step = -1
	}

	var dest string
	switch {
	case step != 0 && len(args) == 2: //nolint:mnd // ID and column
		return clierr.New(clierr.InvalidInput, "give a column or --next/--prev, not both")
	case step == 0 && len(args) < 2: //nolint:mnd // ID and column
		return clierr.New(clierr.InvalidInput, "column is required (or use --next/--prev)")
	case step == 0:
		dest, err = resolveColumn(p, args[1])
		if err != nil {
			return err
		}
	}

	if len(ids) == 1 {
		return moveSingleTask(cmd.Context(), cfg, s, ids[0], p, dest, step)
	}

	return runBatch(cmd.Context(), ids, func(ctx context.Context, id string) error {
		_, err := executeMove(ctx, cfg, s, id, p, dest, step)
		return err
	})
}

func moveSingleTask(ctx context.Context, cfg *config.Config, s store.Store, id string, p pivot.Pivot, dest string, step int) error {
	m, err := executeMove(ctx, cfg, s, id, p, dest, step)
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, m)
	case output.FormatCompact:
		output.MoveCompact(os.Stdout, m)
		return nil
	}

	if !m.Changed {
		output.Messagef(os.Stdout, "Task %s is already in %s", task.ShortID(m.Task.ID), m.To)
		return nil
	}
	output.Messagef(os.Stdout, "Moved task %s: %s %s -> %s", task.ShortID(m.Task.ID), p, m.From, m.To)
	return nil
}

// executeMove drops task id on dest, or on the column step places away from
// its current one when step is non-zero.
func executeMove(ctx context.Context, cfg *config.Config, s store.Store, id string, p pivot.Pivot, dest string, step int) (board.Move, error) {
	if step != 0 {
		var err error
		dest, err = adjacentColumn(ctx, s, id, p, step)
		if err != nil {
			return board.Move{}, err
		}
	}
	return board.MoveTask(ctx, s, cfg.Dir(), id, p, dest)
}

// resolveColumn maps a user-supplied column name to the column ID of p.
func resolveColumn(p pivot.Pivot, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	switch p {
	case pivot.Status:
		st, ok := task.ParseStatus(arg)
		if !ok {
			return "", invalidColumn(p, arg)
		}
		return string(st), nil
	case pivot.Priority:
		pr, ok := task.ParsePriority(arg)
		if !ok {
			return "", invalidColumn(p, arg)
		}
		return string(pr), nil
	default:
		if arg == "" {
			return "", invalidColumn(p, arg)
		}
		return arg, nil
	}
}

// adjacentColumn returns the ID of the column step places from the task's
// current column on the board as it stands.
func adjacentColumn(ctx context.Context, s store.Store, id string, p pivot.Pivot, step int) (string, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	t, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	cols := pivot.Columns(tasks, p)
	i := pivot.ColumnIndex(cols, pivot.Resolve(t, p)) + step
	if i < 0 || i >= len(cols) {
		edge := "last"
		if step < 0 {
			edge = "first"
		}
		return "", clierr.Newf(clierr.InvalidColumn, "task %s is already in the %s column", task.ShortID(t.ID), edge).
			WithDetails(map[string]any{"id": t.ID, "pivot": p.String()})
	}
	return cols[i].ID, nil
}

func invalidColumn(p pivot.Pivot, column string) error {
	details := map[string]any{"pivot": p.String(), "column": column}
	if p.Closed() {
		var allowed []string
		for _, c := range pivot.Columns(nil, p) {
			allowed = append(allowed, c.ID)
		}
		details["allowed"] = allowed
	}
	return clierr.Newf(clierr.InvalidColumn, "invalid %s column %q", p, column).WithDetails(details)
}
