package boundary

import (
	"errors"
	"fmt"
)

// Reason identifies which check rejected a candidate path.
type Reason string

const (
	ReasonTraversal                 Reason = "traversal"
	ReasonEncodedTraversal          Reason = "encoded-traversal"
	ReasonDoubleEncodedTraversal    Reason = "double-encoded-traversal"
	ReasonEncodedBackslashTraversal Reason = "encoded-backslash-traversal"
	ReasonNullByte                  Reason = "null-byte"
)

// -- Sentinels --

var (
	ErrOutsideWorkspace    = errors.New("path is outside workspace root")
	ErrWorkspaceRootNotSet = errors.New("workspace root not set")
)

// -- Error Types --

// SecurityError is returned when a candidate path is rejected by the boundary.
// AttemptedPath is always the caller's original input, never a canonicalised form.
type SecurityError struct {
	AttemptedPath string
	WorkspaceRoot string
	Reason        Reason
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("path %q rejected (%s): outside workspace root %s", e.AttemptedPath, e.Reason, e.WorkspaceRoot)
}

func (e *SecurityError) Unwrap() error { return ErrOutsideWorkspace }

// OutsideWorkspace implements the behavioral interface for cross-package error checking.
func (e *SecurityError) OutsideWorkspace() bool { return true }
