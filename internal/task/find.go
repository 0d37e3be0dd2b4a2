package task

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// minPrefixLen is the shortest ID prefix accepted by FindByID.
const minPrefixLen = 4

// FindByID scans the tasks directory for the file of the task whose ID is id
// or starts with id. A prefix must be at least four characters and match
// exactly one task.
func FindByID(tasksDir, id string) (string, error) {
	if err := ValidateTaskID(id); err != nil {
		return "", err
	}
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		return "", fmt.Errorf("reading tasks directory: %w", err)
	}

	var matches []string
	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".md" {
			continue
		}
		fileID := IDFromFilename(name)
		if fileID == id {
			return filepath.Join(tasksDir, name), nil
		}
		if len(id) >= minPrefixLen && strings.HasPrefix(fileID, id) {
			matches = append(matches, fileID)
			paths = append(paths, filepath.Join(tasksDir, name))
		}
	}

	switch len(matches) {
	case 0:
		return "", NotFound(id)
	case 1:
		return paths[0], nil
	default:
		return "", Ambiguous(id, matches)
	}
}

// ReadWarning describes a file that could not be parsed during lenient reading.
type ReadWarning struct {
	File string // base filename
	Err  error
}

// ReadAllLenient reads all task files, skipping malformed files instead of aborting.
// Successfully parsed tasks are returned along with warnings for files that failed.
func ReadAllLenient(tasksDir string) ([]*Task, []ReadWarning, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	var tasks []*Task
	var warnings []ReadWarning
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}

		path := filepath.Join(tasksDir, entry.Name())
		t, readErr := Read(path)
		if readErr != nil {
			warnings = append(warnings, ReadWarning{File: entry.Name(), Err: readErr})
			continue
		}
		tasks = append(tasks, t)
	}

	return tasks, warnings, nil
}
