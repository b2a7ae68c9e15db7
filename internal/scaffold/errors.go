package scaffold

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrFileExists   = errors.New("file already exists")
	ErrIsDirectory  = errors.New("path is a directory")
	ErrPathRequired = errors.New("path is required")
)

// -- Error Types --

// StatError is returned when checking an existing target fails for a reason
// other than the target being absent.
type StatError struct {
	Path  string
	Cause error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("failed to stat %s: %v", e.Path, e.Cause)
}

func (e *StatError) Unwrap() error { return e.Cause }

func (e *StatError) IOError() bool { return true }

// EnsureDirsError is returned when a directory cannot be created.
type EnsureDirsError struct {
	Path  string
	Cause error
}

func (e *EnsureDirsError) Error() string {
	return fmt.Sprintf("failed to create directory %s: %v", e.Path, e.Cause)
}

func (e *EnsureDirsError) Unwrap() error { return e.Cause }

func (e *EnsureDirsError) IOError() bool { return true }

// WriteError is returned when the atomic write of a file fails.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error { return e.Cause }

func (e *WriteError) IOError() bool { return true }
