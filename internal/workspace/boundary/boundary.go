// Package boundary gates every read and write against a single workspace root.
//
// Checks are lexical only and run in a fixed order: NUL bytes, percent-encoded
// traversal (single, double and encoded backslash), ".." segments, and finally
// component-wise containment of the joined, cleaned path. No check is skipped
// because an earlier one passed.
package boundary

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Result is the tagged outcome of a boundary check.
// Exactly one of Path or Violation is set.
type Result struct {
	Path      string
	Violation *SecurityError
}

// OK reports whether the candidate was accepted.
func (r Result) OK() bool {
	return r.Violation == nil
}

// Boundary validates candidate paths against a fixed workspace root.
// It holds no mutable state and is safe for concurrent use.
type Boundary struct {
	root string
}

// New creates a Boundary for root. The root is made absolute and cleaned but
// is not required to exist.
func New(root string) (*Boundary, error) {
	if root == "" {
		return nil, ErrWorkspaceRootNotSet
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root %s: %w", root, err)
	}
	return &Boundary{root: abs}, nil
}

// Root returns the absolute workspace root this boundary protects.
func (b *Boundary) Root() string {
	return b.root
}

// Check runs every boundary check against candidate and returns the tagged result.
// Relative candidates are joined to the root; absolute candidates are accepted
// only when they already lie inside it.
func (b *Boundary) Check(candidate string) Result {
	reject := func(reason Reason) Result {
		return Result{Violation: &SecurityError{
			AttemptedPath: candidate,
			WorkspaceRoot: b.root,
			Reason:        reason,
		}}
	}

	if strings.ContainsRune(candidate, 0) {
		return reject(ReasonNullByte)
	}

	if reason, ok := checkEncoded(candidate); !ok {
		return reject(reason)
	}

	if hasTraversalSegment(candidate) {
		return reject(ReasonTraversal)
	}

	var abs string
	if filepath.IsAbs(candidate) {
		abs = filepath.Clean(candidate)
	} else {
		abs = filepath.Join(b.root, candidate)
	}

	if !IsWithinBoundary(b.root, abs) {
		return reject(ReasonTraversal)
	}

	return Result{Path: abs}
}

// ValidatePath returns the absolute path for candidate or a *SecurityError.
func (b *Boundary) ValidatePath(candidate string) (string, error) {
	res := b.Check(candidate)
	if res.Violation != nil {
		return "", res.Violation
	}
	return res.Path, nil
}

// SafeResolve is the non-failing form of ValidatePath.
func (b *Boundary) SafeResolve(candidate string) (string, bool) {
	res := b.Check(candidate)
	return res.Path, res.OK()
}

// ValidatePath validates candidate against root in a single call.
// Returns ErrWorkspaceRootNotSet for an empty root and *SecurityError on rejection.
func ValidatePath(root, candidate string) (string, error) {
	b, err := New(root)
	if err != nil {
		return "", err
	}
	return b.ValidatePath(candidate)
}

// SafeResolve validates candidate against root, returning false instead of an error.
func SafeResolve(root, candidate string) (string, bool) {
	path, err := ValidatePath(root, candidate)
	return path, err == nil
}

// IsWithinBoundary reports whether absolutePath equals root or is a descendant of it.
// Comparison is per path component, so /workspace/projectX is not inside
// /workspace/project. Relative inputs are never inside.
func IsWithinBoundary(root, absolutePath string) bool {
	if root == "" || !filepath.IsAbs(absolutePath) {
		return false
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	pathAbs := filepath.Clean(absolutePath)
	if pathAbs == rootAbs {
		return true
	}

	rel, err := filepath.Rel(rootAbs, pathAbs)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}

// hasTraversalSegment reports whether any segment of path, split on either
// separator style, is exactly "..".
func hasTraversalSegment(path string) bool {
	return hasSegment(path, "..", func(r rune) bool { return r == '/' || r == '\\' })
}

// hasBackslashTraversal reports whether path contains ".." between backslashes.
func hasBackslashTraversal(path string) bool {
	return hasSegment(path, "..", func(r rune) bool { return r == '\\' })
}

func hasSegment(path, segment string, sep func(rune) bool) bool {
	for _, part := range strings.FieldsFunc(path, sep) {
		if part == segment {
			return true
		}
	}
	return false
}
