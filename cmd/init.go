package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
	"github.com/twiced-technology-gmbh/pivotboard/internal/config"
	"github.com/twiced-technology-gmbh/pivotboard/internal/output"
	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new kanban board",
	Long: `Creates a kanban directory with config.yml and a tasks/ subdirectory.
With --store sqlite, tasks are kept in a SQLite database instead of files.`,
	RunE: runInit,
}

var initPivot = pivot.Status

func init() {
	initCmd.Flags().String("name", "", "board name (defaults to current directory name)")
	initCmd.Flags().String("store", config.DefaultStoreDriver, "task store ("+strings.Join(config.Drivers(), ", ")+")")
	initCmd.Flags().String("db", config.DefaultSQLitePath, "SQLite database path, relative to the board directory")
	addPivotFlag(initCmd.Flags(), &initPivot)
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	driver, _ := cmd.Flags().GetString("store")
	if !slices.Contains(config.Drivers(), driver) {
		return clierr.Newf(clierr.InvalidInput, "invalid store %q; valid: %s",
			driver, strings.Join(config.Drivers(), ", "))
	}

	cfg, err := config.Init(dir, name)
	if err != nil {
		return err
	}

	cfg.Defaults.Pivot = initPivot.String()
	cfg.Store.Driver = driver
	if driver == config.DriverSQLite {
		cfg.Store.Path, _ = cmd.Flags().GetString("db")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Opening the store creates the database and its schema.
	s, err := store.Open(cfg)
	if err != nil {
		return err
	}
	if err := s.Close(); err != nil {
		return err
	}

	location := cfg.TasksPath()
	if driver == config.DriverSQLite {
		location = cfg.StorePath()
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status": "initialized",
			"dir":    cfg.Dir(),
			"name":   name,
			"config": cfg.ConfigPath(),
			"store":  driver,
			"tasks":  location,
			"pivot":  cfg.Defaults.Pivot,
		})
	}

	output.Messagef(os.Stdout, "Initialized board %q in %s", name, cfg.Dir())
	output.Messagef(os.Stdout, "  Config: %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Store:  %s (%s)", driver, location)
	output.Messagef(os.Stdout, "  Pivot:  %s", cfg.Defaults.Pivot)
	return nil
}
