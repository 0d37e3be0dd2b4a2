package cmd

import (
	"context"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
	"github.com/twiced-technology-gmbh/pivotboard/internal/config"
	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/output"
	"github.com/twiced-technology-gmbh/pivotboard/internal/store"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID[,ID,...]",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields are changed.
Multiple IDs can be provided as a comma-separated list.

Changing the status also sets completion: Done completes the task, any other
status reopens it. --completed and --reopen override that.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	addEditFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}

func addEditFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.String("title", "", "new title")
	fs.String("status", "", "new status")
	fs.String("priority", "", "new priority")
	fs.StringSlice("tags", nil, "replace all tags (primary first)")
	fs.StringSlice("add-tag", nil, "add tags")
	fs.StringSlice("remove-tag", nil, "remove tags")
	fs.String("primary-tag", "", "replace the primary tag")
	fs.String("due", "", "new due date (YYYY-MM-DD, today, +3d, ...)")
	fs.Bool("clear-due", false, "clear due date")
	fs.String("body", "", "new body text (replaces entire body)")
	fs.StringP("append-body", "a", "", "append text to task body")
	fs.BoolP("timestamp", "t", false, "prefix a timestamp line when appending")
	fs.Bool("completed", false, "mark the task completed")
	fs.Bool("reopen", false, "mark the task not completed")
	cmd.MarkFlagsMutuallyExclusive("completed", "reopen")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	cmd.MarkFlagsMutuallyExclusive("body", "append-body")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	cfg, s, err := openBoard()
	if err != nil {
		return err
	}
	defer s.Close()

	if len(ids) == 1 {
		return editSingleTask(cmd.Context(), cfg, s, ids[0], cmd)
	}

	return runBatch(cmd.Context(), ids, func(ctx context.Context, id string) error {
		_, err := executeEdit(ctx, cfg, s, id, cmd)
		return err
	})
}

// editSingleTask handles a single task edit with full output.
func editSingleTask(ctx context.Context, cfg *config.Config, s store.Store, id string, cmd *cobra.Command) error {
	t, err := executeEdit(ctx, cfg, s, id, cmd)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Updated task %s: %s", task.ShortID(t.ID), t.Title)
	return nil
}

// executeEdit performs the core edit: resolve, build the patch, update, log.
func executeEdit(ctx context.Context, cfg *config.Config, s store.Store, id string, cmd *cobra.Command) (*task.Task, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := buildEditPatch(cmd, cur, time.Now())
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, clierr.New(clierr.NoChanges, "no changes specified")
	}

	t, err := s.Update(ctx, cur.ID, p)
	if err != nil {
		return nil, err
	}
	logActivity(cfg, "edit", t.ID, "set "+strings.Join(p.Fields(), ", "))
	return t, nil
}

// buildEditPatch turns the edit flags into a patch against cur.
func buildEditPatch(cmd *cobra.Command, cur *task.Task, now time.Time) (task.Patch, error) {
	var p task.Patch
	flags := cmd.Flags()

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		if err := task.ValidateTitle(v); err != nil {
			return p, err
		}
		p.Title = &v
	}
	if v, _ := flags.GetString("status"); v != "" {
		st, ok := task.ParseStatus(v)
		if !ok {
			return p, task.ValidateStatus(v)
		}
		sp := task.StatusPatch(st)
		p.Status, p.IsCompleted = sp.Status, sp.IsCompleted
	}
	if v, _ := flags.GetBool("completed"); v {
		p.IsCompleted = &v
	}
	if v, _ := flags.GetBool("reopen"); v {
		completed := false
		p.IsCompleted = &completed
	}
	if v, _ := flags.GetString("priority"); v != "" {
		pr, ok := task.ParsePriority(v)
		if !ok {
			return p, task.ValidatePriority(v)
		}
		p.Priority = &pr
	}

	if tags, changed := editTags(cmd, cur.Tags); changed {
		p.Tags = &tags
	}

	if v, _ := flags.GetString("due"); v != "" {
		d, err := date.ParseRelative(v, now)
		if err != nil {
			return p, task.ValidateDate("due", v, err)
		}
		p.Due = &d
	}
	if v, _ := flags.GetBool("clear-due"); v {
		p.ClearDue = true
	}

	if flags.Changed("body") {
		v, _ := flags.GetString("body")
		p.Body = &v
	}
	if v, _ := flags.GetString("append-body"); v != "" {
		stamp, _ := flags.GetBool("timestamp")
		body := appendBody(cur.Body, v, stamp, now)
		p.Body = &body
	}
	return p, nil
}

// editTags applies the tag flags to tags and reports whether any was given.
func editTags(cmd *cobra.Command, tags []string) ([]string, bool) {
	flags := cmd.Flags()
	changed := false
	out := slices.Clone(tags)

	if flags.Changed("tags") {
		out, _ = flags.GetStringSlice("tags")
		changed = true
	}
	if add, _ := flags.GetStringSlice("add-tag"); len(add) > 0 {
		for _, tag := range add {
			if !slices.Contains(out, tag) {
				out = append(out, tag)
			}
		}
		changed = true
	}
	if remove, _ := flags.GetStringSlice("remove-tag"); len(remove) > 0 {
		out = slices.DeleteFunc(out, func(tag string) bool { return slices.Contains(remove, tag) })
		changed = true
	}
	if flags.Changed("primary-tag") {
		primary, _ := flags.GetString("primary-tag")
		out = task.ReplacePrimaryTag(out, strings.TrimSpace(primary))
		changed = true
	}
	return task.NormalizeTags(out), changed
}

// appendBody adds text as a new paragraph, optionally under a timestamp line.
func appendBody(body, text string, stamp bool, now time.Time) string {
	if stamp {
		text = "**" + now.Format("2006-01-02 15:04") + "**\n" + text
	}
	body = strings.TrimRight(body, "\n")
	if body == "" {
		return text + "\n"
	}
	return body + "\n\n" + text + "\n"
}
