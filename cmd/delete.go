package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
	"github.com/twiced-technology-gmbh/pivotboard/internal/config"
	"github.com/twiced-technology-gmbh/pivotboard/internal/output"
	"github.com/twiced-technology-gmbh/pivotboard/internal/store"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Removes a task from the store. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq, "batch delete requires --yes")
	}

	cfg, s, err := openBoard()
	if err != nil {
		return err
	}
	defer s.Close()

	if len(ids) == 1 {
		return deleteSingleTask(cmd.Context(), cfg, s, ids[0], yes)
	}

	return runBatch(cmd.Context(), ids, func(ctx context.Context, id string) error {
		t, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		return executeDelete(ctx, cfg, s, t)
	})
}

// deleteSingleTask handles a single task delete with confirmation and output.
func deleteSingleTask(ctx context.Context, cfg *config.Config, s store.Store, id string, yes bool) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete task %s %q? [y/N] ", task.ShortID(t.ID), t.Title)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	if err := executeDelete(ctx, cfg, s, t); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     t.ID,
			"title":  t.Title,
		})
	}

	output.Messagef(os.Stdout, "Deleted task %s: %s", task.ShortID(t.ID), t.Title)
	return nil
}

// executeDelete removes the task and logs the delete action.
func executeDelete(ctx context.Context, cfg *config.Config, s store.Store, t *task.Task) error {
	if err := s.Delete(ctx, t.ID); err != nil {
		return err
	}
	logActivity(cfg, "delete", t.ID, t.Title)
	return nil
}
