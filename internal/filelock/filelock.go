// Package filelock serializes writers of a board's task files across
// processes with an advisory lock held on a sidecar file.
package filelock

import (
	"fmt"
	"os"
)

const lockFileMode = 0o600

// Name is the lock file kept in the tasks directory.
const Name = ".lock"

// Lock acquires an exclusive advisory lock on the file at path, creating it
// if needed. Other callers block until the returned unlock is called.
func Lock(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted source
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}

// With runs fn while holding the lock at path. An unlock failure is reported
// only when fn itself succeeded.
func With(path string, fn func() error) (err error) {
	unlock, err := Lock(path)
	if err != nil {
		return err
	}
	defer func() {
		if uerr := unlock(); err == nil {
			err = uerr
		}
	}()
	return fn()
}
