package boundary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotADirectory is returned when a workspace root exists but is not a directory.
var ErrNotADirectory = errors.New("not a directory")

// WorkspaceRootError is returned when a workspace root cannot be canonicalised.
type WorkspaceRootError struct {
	Root  string
	Cause error
}

func (e *WorkspaceRootError) Error() string {
	return fmt.Sprintf("invalid workspace root %s: %v", e.Root, e.Cause)
}

func (e *WorkspaceRootError) Unwrap() error { return e.Cause }

// CanonicaliseRoot makes an existing workspace root absolute and resolves
// symlinks in it. Unlike New, it touches the filesystem and fails when the
// root is missing or is not a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &WorkspaceRootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &WorkspaceRootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &WorkspaceRootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &WorkspaceRootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Rel returns candidate relative to the root in slash form, or "" for the
// root itself. Candidates are checked exactly as in ValidatePath.
func (b *Boundary) Rel(candidate string) (string, error) {
	abs, err := b.ValidatePath(candidate)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(b.root, abs)
	if err != nil {
		return "", &SecurityError{AttemptedPath: candidate, WorkspaceRoot: b.root, Reason: ReasonTraversal}
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}
