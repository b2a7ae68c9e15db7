// Package scaffold creates the workspace layout and writes generated context
// files. Every target goes through the workspace boundary before it touches disk.
package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Cyclone1070/aicontext/internal/fsutil"
	"github.com/Cyclone1070/aicontext/internal/workspace/boundary"
	"github.com/Cyclone1070/aicontext/internal/workspace/structure"
	"github.com/rs/zerolog"
)

const defaultPerm os.FileMode = 0o644

// fileWriter defines the minimal filesystem operations needed for writing files.
type fileWriter interface {
	Stat(path string) (os.FileInfo, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
	EnsureDirs(path string) error
}

// File is a single generated file. Path is relative to the workspace root.
type File struct {
	Path      string
	Content   string
	Perm      os.FileMode
	Overwrite bool
}

// Failure records a file that passed the boundary but could not be written.
// IO is set when the filesystem failed, as opposed to a bad request such as
// a directory standing where the file should go.
type Failure struct {
	Path string
	Err  error
	IO   bool
}

// Report summarises a WriteAll run. Paths in Written and Kept are absolute;
// Skipped carries the rejected candidate as given.
type Report struct {
	Written []string
	Kept    []string
	Skipped []*boundary.SecurityError
	Failed  []Failure
}

// OK reports whether every file was either written or deliberately kept.
func (r Report) OK() bool {
	return len(r.Skipped) == 0 && len(r.Failed) == 0
}

// Writer writes files beneath a single workspace root.
type Writer struct {
	fs       fileWriter
	boundary *boundary.Boundary
	logger   zerolog.Logger
}

// NewWriter creates a Writer for rootPath.
func NewWriter(fs fileWriter, rootPath string, logger zerolog.Logger) (*Writer, error) {
	if fs == nil {
		panic("fs is required")
	}
	b, err := boundary.New(rootPath)
	if err != nil {
		return nil, err
	}
	return &Writer{
		fs:       fs,
		boundary: b,
		logger:   logger.With().Str("component", "scaffold").Logger(),
	}, nil
}

// Root returns the absolute workspace root.
func (w *Writer) Root() string {
	return w.boundary.Root()
}

// Init creates the workspace root and the standard directories beneath it.
// Directories that already exist are left alone. Returns the absolute paths
// of the standard directories.
func (w *Writer) Init() ([]string, error) {
	if err := w.fs.EnsureDirs(w.Root()); err != nil {
		return nil, &EnsureDirsError{Path: w.Root(), Cause: err}
	}

	dirs := make([]string, 0, len(structure.StandardDirectories))
	for _, name := range structure.StandardDirectories {
		abs, err := w.boundary.ValidatePath(name)
		if err != nil {
			return nil, err
		}
		if err := w.fs.EnsureDirs(abs); err != nil {
			return nil, &EnsureDirsError{Path: abs, Cause: err}
		}
		dirs = append(dirs, abs)
	}

	w.logger.Debug().Str("root", w.Root()).Strs("dirs", dirs).Msg("workspace initialised")
	return dirs, nil
}

// Write writes a single file and returns its absolute path.
// Returns *boundary.SecurityError when the path escapes the workspace and
// ErrFileExists when the target exists and Overwrite is not set.
func (w *Writer) Write(f File) (string, error) {
	if f.Path == "" {
		return "", ErrPathRequired
	}

	abs, err := w.boundary.ValidatePath(f.Path)
	if err != nil {
		return "", err
	}

	info, err := w.fs.Stat(abs)
	switch {
	case err == nil && info.IsDir():
		return "", fmt.Errorf("%w: %s", ErrIsDirectory, abs)
	case err == nil && !f.Overwrite:
		return "", fmt.Errorf("%w: %s", ErrFileExists, abs)
	case err != nil && !os.IsNotExist(err):
		return "", &StatError{Path: abs, Cause: err}
	}

	parentDir := filepath.Dir(abs)
	if err := w.fs.EnsureDirs(parentDir); err != nil {
		return "", &EnsureDirsError{Path: parentDir, Cause: err}
	}

	perm := f.Perm
	if perm == 0 {
		perm = defaultPerm
	}
	if err := w.fs.WriteFileAtomic(abs, []byte(f.Content), perm); err != nil {
		return "", &WriteError{Path: abs, Cause: err}
	}
	return abs, nil
}

// WriteAll writes every file, continuing past individual failures.
// Boundary violations are logged with the attempted path and reason.
func (w *Writer) WriteAll(files []File) Report {
	var report Report
	for _, f := range files {
		abs, err := w.Write(f)

		var secErr *boundary.SecurityError
		switch {
		case err == nil:
			report.Written = append(report.Written, abs)
		case errors.As(err, &secErr):
			w.logger.Warn().
				Str("attempted_path", secErr.AttemptedPath).
				Str("reason", string(secErr.Reason)).
				Msg("skipping file outside workspace")
			report.Skipped = append(report.Skipped, secErr)
		case errors.Is(err, ErrFileExists):
			w.logger.Debug().Str("path", f.Path).Msg("keeping existing file")
			abs, _ := w.boundary.SafeResolve(f.Path)
			report.Kept = append(report.Kept, abs)
		default:
			io := isIOError(err)
			level := zerolog.WarnLevel
			if io {
				level = zerolog.ErrorLevel
			}
			w.logger.WithLevel(level).Err(err).Str("path", f.Path).Bool("io", io).Msg("failed to write file")
			report.Failed = append(report.Failed, Failure{Path: f.Path, Err: err, IO: io})
		}
	}
	return report
}

// Rel returns path relative to the workspace root in slash form.
func (w *Writer) Rel(path string) (string, error) {
	return w.boundary.Rel(path)
}

// NewOSWriter creates a Writer backed by the local filesystem.
func NewOSWriter(rootPath string, logger zerolog.Logger) (*Writer, error) {
	return NewWriter(fsutil.NewOSFileSystem(), rootPath, logger)
}

func isIOError(err error) bool {
	var ioErr interface{ IOError() bool }
	return errors.As(err, &ioErr) && ioErr.IOError()
}
