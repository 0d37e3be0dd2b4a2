// Package config handles board configuration.
package config

const (
	// DefaultDir is the default kanban directory name.
	DefaultDir = "kanban"
	// DefaultTasksDir is the default tasks subdirectory name.
	DefaultTasksDir = "tasks"
	// DefaultPriority is the priority given to new tasks.
	DefaultPriority = "Medium"
	// DefaultPivot is the pivot the board and TUI open on.
	DefaultPivot = "status"
	// DefaultTitleLines is the default number of title lines in TUI cards.
	DefaultTitleLines = 2
	// DefaultStoreDriver is the store used when none is configured.
	DefaultStoreDriver = DriverFiles
	// DefaultSQLitePath is the database file, relative to the kanban directory.
	DefaultSQLitePath = "tasks.db"
	// DefaultServerAddr is the listen address of the HTTP API.
	DefaultServerAddr = "127.0.0.1:7420"

	// ConfigFileName is the name of the config file within the kanban directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2
)

// Store drivers.
const (
	DriverFiles  = "files"
	DriverSQLite = "sqlite"
)

// Drivers lists the supported store drivers.
func Drivers() []string {
	return []string{DriverFiles, DriverSQLite}
}

func boolPtr(v bool) *bool { return &v }
