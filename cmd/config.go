package cmd

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
	"github.com/twiced-technology-gmbh/pivotboard/internal/config"
	"github.com/twiced-technology-gmbh/pivotboard/internal/output"
	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify board configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	accessors := baseConfigAccessors()
	addExtendedConfigAccessors(accessors)
	return accessors
}

func baseConfigAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"board.name": {
			get:      func(c *config.Config) any { return c.Board.Name },
			set:      func(c *config.Config, v string) error { c.Board.Name = v; return nil },
			writable: true,
		},
		"board.description": {
			get:      func(c *config.Config) any { return c.Board.Description },
			set:      func(c *config.Config, v string) error { c.Board.Description = v; return nil },
			writable: true,
		},
		"statuses": {
			get: func(*config.Config) any { return enumNames(task.Statuses()) },
		},
		"priorities": {
			get: func(*config.Config) any { return enumNames(task.Priorities()) },
		},
		"pivots": {
			get: func(*config.Config) any { return pivot.Names() },
		},
		"defaults.priority": {
			get: func(c *config.Config) any { return c.Defaults.Priority },
			set: func(c *config.Config, v string) error {
				p, ok := task.ParsePriority(v)
				if !ok {
					return task.ValidatePriority(v)
				}
				c.Defaults.Priority = string(p)
				return nil
			},
			writable: true,
		},
		"defaults.pivot": {
			get: func(c *config.Config) any { return c.Defaults.Pivot },
			set: func(c *config.Config, v string) error {
				p, err := pivot.Parse(v)
				if err != nil {
					return err
				}
				c.Defaults.Pivot = p.String()
				return nil
			},
			writable: true,
		},
		"tasks_dir": {
			get: func(c *config.Config) any { return c.TasksDir },
		},
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
	}
}

func addExtendedConfigAccessors(accessors map[string]configAccessor) {
	accessors["store.driver"] = configAccessor{
		get: func(c *config.Config) any { return c.Store.Driver },
	}
	accessors["store.path"] = configAccessor{
		get: func(c *config.Config) any { return c.StorePath() },
	}
	accessors["server.addr"] = configAccessor{
		get: func(c *config.Config) any { return c.Server.Addr },
		set: func(c *config.Config, v string) error {
			if _, _, err := net.SplitHostPort(v); err != nil {
				return clierr.Newf(clierr.InvalidInput, "invalid server.addr %q: %v", v, err)
			}
			c.Server.Addr = v
			return nil
		},
		writable: true,
	}
	accessors["tui.title_lines"] = configAccessor{
		get: func(c *config.Config) any { return c.TitleLines() },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return clierr.Newf(clierr.InvalidInput,
					"invalid tui.title_lines %q: must be an integer", v)
			}
			c.TUI.TitleLines = n
			return nil // validation handles range check
		},
		writable: true,
	}
	accessors["tui.show_tags"] = configAccessor{
		get: func(c *config.Config) any { return c.ShowTags() },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return clierr.Newf(clierr.InvalidInput,
					"invalid tui.show_tags %q: must be true or false", v)
			}
			c.TUI.ShowTags = &b
			return nil
		},
		writable: true,
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"board.name",
		"board.description",
		"tasks_dir",
		"store.driver",
		"store.path",
		"statuses",
		"priorities",
		"pivots",
		"defaults.priority",
		"defaults.pivot",
		"tui.title_lines",
		"tui.show_tags",
		"server.addr",
	}
}

func enumNames[T ~string](values []T) []string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return names
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	// Table mode: key-value pairs.
	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-20s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	accessors := configAccessors()
	acc, ok := accessors[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	accessors := configAccessors()
	acc, ok := accessors[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
