package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no kanban board found (run 'pivotboard init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the board configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Board    BoardConfig    `yaml:"board"`
	TasksDir string         `yaml:"tasks_dir"`
	Store    StoreConfig    `yaml:"store"`
	Defaults DefaultsConfig `yaml:"defaults"`
	TUI      TUIConfig      `yaml:"tui,omitempty"`
	Server   ServerConfig   `yaml:"server"`

	// dir is the absolute path to the kanban directory (not serialized).
	dir string `yaml:"-"`
}

// BoardConfig holds board metadata.
type BoardConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// StoreConfig selects the task store.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	// Path is the SQLite database file, relative to the kanban directory
	// unless absolute. Unused by the files driver.
	Path string `yaml:"path,omitempty"`
}

// DefaultsConfig holds default values for new tasks and views.
type DefaultsConfig struct {
	Priority string `yaml:"priority"`
	Pivot    string `yaml:"pivot"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	TitleLines int   `yaml:"title_lines,omitempty"`
	ShowTags   *bool `yaml:"show_tags,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Dir returns the absolute path to the kanban directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the kanban directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// TasksPath returns the absolute path to the tasks directory.
func (c *Config) TasksPath() string {
	return filepath.Join(c.dir, c.TasksDir)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// StorePath returns the absolute path to the SQLite database.
func (c *Config) StorePath() string {
	p := c.Store.Path
	if p == "" {
		p = DefaultSQLitePath
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// WatchPaths returns the directories whose changes affect the board: the
// tasks directory, the board directory and, for SQLite, the database's
// directory. Duplicates are removed.
func (c *Config) WatchPaths() []string {
	paths := []string{c.TasksPath()}
	candidates := []string{c.dir}
	if c.Store.Driver == DriverSQLite {
		candidates = append(candidates, filepath.Dir(c.StorePath()))
	}
	for _, p := range candidates {
		if !contains(paths, p) {
			paths = append(paths, p)
		}
	}
	return paths
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:  CurrentVersion,
		Board:    BoardConfig{Name: name},
		TasksDir: DefaultTasksDir,
		Store:    StoreConfig{Driver: DefaultStoreDriver},
		Defaults: DefaultsConfig{
			Priority: DefaultPriority,
			Pivot:    DefaultPivot,
		},
		TUI:    TUIConfig{TitleLines: DefaultTitleLines, ShowTags: boolPtr(true)},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Board.Name == "" {
		return fmt.Errorf("%w: board.name is required", ErrInvalid)
	}
	if c.TasksDir == "" {
		return fmt.Errorf("%w: tasks_dir is required", ErrInvalid)
	}
	if !contains(Drivers(), c.Store.Driver) {
		return fmt.Errorf("%w: store.driver %q must be one of %v", ErrInvalid, c.Store.Driver, Drivers())
	}
	if !task.Priority(c.Defaults.Priority).Valid() {
		return fmt.Errorf("%w: default priority %q is not a known priority", ErrInvalid, c.Defaults.Priority)
	}
	if _, err := pivot.Parse(c.Defaults.Pivot); err != nil {
		return fmt.Errorf("%w: defaults.pivot: %w", ErrInvalid, err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalid)
	}
	return c.validateTUI()
}

func (c *Config) validateTUI() error {
	const minTitleLines, maxTitleLines = 1, 3
	if c.TUI.TitleLines < minTitleLines || c.TUI.TitleLines > maxTitleLines {
		return fmt.Errorf("%w: tui.title_lines must be between %d and %d",
			ErrInvalid, minTitleLines, maxTitleLines)
	}
	return nil
}

// DefaultPivot returns the configured starting pivot, falling back to status.
func (c *Config) DefaultPivot() pivot.Pivot {
	p, err := pivot.Parse(c.Defaults.Pivot)
	if err != nil {
		return pivot.Status
	}
	return p
}

// TitleLines returns the configured number of title lines for TUI cards.
func (c *Config) TitleLines() int {
	if c.TUI.TitleLines == 0 {
		return DefaultTitleLines
	}
	return c.TUI.TitleLines
}

// ShowTags reports whether TUI cards list their tags. Defaults to true.
func (c *Config) ShowTags() bool {
	return c.TUI.ShowTags == nil || *c.TUI.ShowTags
}

// Init creates a new board in the given directory with default settings.
// It creates the kanban directory, tasks subdirectory, and config file.
func Init(dir, name string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(filepath.Join(absDir, ConfigFileName)); err == nil {
		return nil, clierr.Newf(clierr.BoardAlreadyExists, "board already exists in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := os.MkdirAll(cfg.TasksPath(), dirMode); err != nil {
		return nil, fmt.Errorf("creating tasks directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given kanban directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindDir walks upward from startDir looking for a kanban directory
// containing config.yml. Returns the absolute path to the kanban directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the kanban directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound,
				"no kanban board found (run 'pivotboard init' to create one)")
		}
		dir = parent
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
