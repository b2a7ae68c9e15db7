// Package fsutil provides the OS filesystem primitives shared by the workspace
// resolver, the structure validator and the scaffold writer.
package fsutil

import (
	"io"
	"os"
	"path/filepath"
)

// writeSyncCloser defines the minimal interface for a writable file handle.
type writeSyncCloser interface {
	io.Writer
	Sync() error
	Close() error
	Name() string
}

// OSFileSystem implements filesystem operations using the local OS filesystem primitives.
// Syscalls used by WriteFileAtomic are held in function fields so tests can inject failures.
type OSFileSystem struct {
	createTemp func(dir, pattern string) (writeSyncCloser, error)
	rename     func(oldpath, newpath string) error
	chmod      func(name string, mode os.FileMode) error
	remove     func(name string) error
}

// NewOSFileSystem creates a new OSFileSystem with real OS syscalls.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{
		createTemp: func(dir, pattern string) (writeSyncCloser, error) {
			return os.CreateTemp(dir, pattern)
		},
		rename: os.Rename,
		chmod:  os.Chmod,
		remove: os.Remove,
	}
}

// Stat returns file info for a path (follows symlinks).
func (r *OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads the whole file at path.
func (r *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// EnsureDirs creates a directory and its parents if they don't exist.
func (r *OSFileSystem) EnsureDirs(path string) error {
	return os.MkdirAll(path, 0o755)
}

// WriteFileAtomic writes content to a file atomically using temp file + rename pattern.
// The temp file is created in the target's directory so the rename stays on one filesystem.
func (r *OSFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := r.createTemp(dir, ".tmp-*")
	if err != nil {
		return &TempFileError{Dir: dir, Cause: err}
	}

	tmpPath := tmpFile.Name()
	needsCleanup := true

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
		}
		if needsCleanup {
			_ = r.remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(content); err != nil {
		return &TempWriteError{Path: tmpPath, Cause: err}
	}

	if err := tmpFile.Sync(); err != nil {
		return &TempSyncError{Path: tmpPath, Cause: err}
	}

	// Close before rename (required on some systems)
	if err := tmpFile.Close(); err != nil {
		tmpFile = nil
		return &TempCloseError{Path: tmpPath, Cause: err}
	}
	tmpFile = nil

	if err := r.rename(tmpPath, path); err != nil {
		return &RenameError{Old: tmpPath, New: path, Cause: err}
	}
	needsCleanup = false

	if err := r.chmod(path, perm); err != nil {
		return &ChmodError{Path: path, Mode: perm, Cause: err}
	}

	return nil
}
