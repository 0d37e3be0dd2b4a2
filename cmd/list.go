package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/pivotboard/internal/board"
	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/output"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Lists tasks with optional filtering, sorting, and output format control.`,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringSlice("status", nil, "filter by status (comma-separated)")
	listCmd.Flags().StringSlice("priority", nil, "filter by priority (comma-separated)")
	listCmd.Flags().String("tag", "", "filter by tag")
	listCmd.Flags().StringP("search", "s", "", "search tasks by title, body, or tags (case-insensitive)")
	listCmd.Flags().Bool("open", false, "show only tasks that are not completed")
	listCmd.Flags().Bool("completed", false, "show only completed tasks")
	listCmd.Flags().Bool("overdue", false, "show only overdue tasks")
	listCmd.Flags().String("due-before", "", "show only tasks due before a date")
	listCmd.Flags().String("sort", "created", "sort field ("+strings.Join(board.SortFields(), ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	opts, err := listOptionsFromFlags(cmd, time.Now())
	if err != nil {
		return err
	}

	_, s, err := openBoard()
	if err != nil {
		return err
	}
	defer s.Close()

	tasks, err := board.List(cmd.Context(), s, opts)
	if err != nil {
		return err
	}
	return outputTaskList(tasks)
}

func listOptionsFromFlags(cmd *cobra.Command, now time.Time) (board.ListOptions, error) {
	statuses, _ := cmd.Flags().GetStringSlice("status")
	priorities, _ := cmd.Flags().GetStringSlice("priority")
	tag, _ := cmd.Flags().GetString("tag")
	search, _ := cmd.Flags().GetString("search")
	open, _ := cmd.Flags().GetBool("open")
	completed, _ := cmd.Flags().GetBool("completed")
	overdue, _ := cmd.Flags().GetBool("overdue")
	dueBefore, _ := cmd.Flags().GetString("due-before")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")

	if err := board.ValidateSortField(sortBy); err != nil {
		return board.ListOptions{}, err
	}

	filter := board.FilterOptions{
		Tag:     tag,
		Search:  search,
		Overdue: overdue,
		Today:   date.FromTime(now),
	}
	for _, v := range statuses {
		st, ok := task.ParseStatus(v)
		if !ok {
			return board.ListOptions{}, task.ValidateStatus(v)
		}
		filter.Statuses = append(filter.Statuses, st)
	}
	for _, v := range priorities {
		p, ok := task.ParsePriority(v)
		if !ok {
			return board.ListOptions{}, task.ValidatePriority(v)
		}
		filter.Priorities = append(filter.Priorities, p)
	}
	switch {
	case completed:
		v := true
		filter.Completed = &v
	case open:
		v := false
		filter.Completed = &v
	}
	if dueBefore != "" {
		d, err := date.ParseRelative(dueBefore, now)
		if err != nil {
			return board.ListOptions{}, task.ValidateDate("due-before", dueBefore, err)
		}
		filter.DueBefore = &d
	}

	return board.ListOptions{
		Filter:  filter,
		SortBy:  sortBy,
		Reverse: reverse,
		Limit:   limit,
	}, nil
}

func outputTaskList(tasks []*task.Task) error {
	format := outputFormat()
	if format == output.FormatJSON {
		if tasks == nil {
			tasks = []*task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}

	output.TaskTable(os.Stdout, tasks, time.Now())
	return nil
}
