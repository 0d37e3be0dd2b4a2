package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/output"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create [TITLE]",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Creates a new task with the given title and optional fields.

Title can be provided as a positional argument or via --title flag.
Body/description can be provided via --body or --description flag.
The first tag is the primary tag used by the tag pivot.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("id", "", "task ID (generated when omitted)")
	createCmd.Flags().String("title", "", "task title (alternative to positional argument)")
	createCmd.Flags().String("status", "", "task status (default Pending)")
	createCmd.Flags().String("priority", "", "task priority (default from config)")
	createCmd.Flags().StringSlice("tags", nil, "comma-separated tags, primary first")
	createCmd.Flags().String("due", "", "due date (YYYY-MM-DD, today, tomorrow, +3d, +2w)")
	createCmd.Flags().String("body", "", "task body/description (markdown)")
	createCmd.Flags().SetNormalizeFunc(normalizeAliases(map[string]string{
		"tag":         "tags",
		"description": "body",
	}))
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	title, err := resolveCreateTitle(cmd, args)
	if err != nil {
		return err
	}

	cfg, s, err := openBoard()
	if err != nil {
		return err
	}
	defer s.Close()

	t := &task.Task{
		Title:    title,
		Status:   task.DefaultStatus,
		Priority: task.Priority(cfg.Defaults.Priority),
	}
	if err := applyCreateFlags(cmd, t, time.Now()); err != nil {
		return err
	}

	created, err := s.Create(cmd.Context(), t)
	if err != nil {
		return err
	}
	logActivity(cfg, "create", created.ID, created.Title)

	return outputCreateResult(created)
}

func outputCreateResult(t *task.Task) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Created task %s: %s", task.ShortID(t.ID), t.Title)
	if t.File != "" {
		output.Messagef(os.Stdout, "  File: %s", t.File)
	}
	output.Messagef(os.Stdout, "  Status: %s | Priority: %s", t.Status.Label(), t.Priority)
	if t.Due != nil {
		output.Messagef(os.Stdout, "  Due: %s", t.Due)
	}
	if len(t.Tags) > 0 {
		output.Messagef(os.Stdout, "  Tags: %s", strings.Join(t.Tags, ", "))
	}
	return nil
}

// resolveCreateTitle returns the task title from either the positional arg or --title flag.
func resolveCreateTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	hasPositional := len(args) > 0
	hasFlag := flagTitle != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"title provided both as argument and --title flag; use one or the other")
	case hasPositional:
		return args[0], nil
	case hasFlag:
		return flagTitle, nil
	default:
		return "", clierr.New(clierr.InvalidInput,
			"title is required: provide it as an argument or with --title")
	}
}

func applyCreateFlags(cmd *cobra.Command, t *task.Task, now time.Time) error {
	if v, _ := cmd.Flags().GetString("id"); v != "" {
		t.ID = v
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		s, ok := task.ParseStatus(v)
		if !ok {
			return task.ValidateStatus(v)
		}
		t.Status = s
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		p, ok := task.ParsePriority(v)
		if !ok {
			return task.ValidatePriority(v)
		}
		t.Priority = p
	}
	if v, _ := cmd.Flags().GetStringSlice("tags"); len(v) > 0 {
		t.Tags = v
	}
	if v, _ := cmd.Flags().GetString("due"); v != "" {
		d, err := date.ParseRelative(v, now)
		if err != nil {
			return task.ValidateDate("due", v, err)
		}
		t.Due = &d
	}
	if v, _ := cmd.Flags().GetString("body"); v != "" {
		t.Body = v
	}
	return nil
}
