package root

import (
	"github.com/go-git/go-git/v5"
)

// GitDetector confirms repository roots with go-git, so a stray or empty
// .git directory is not mistaken for a project boundary.
type GitDetector struct{}

// NewGitDetector creates a GitDetector.
func NewGitDetector() *GitDetector {
	return &GitDetector{}
}

// IsRepository reports whether dir is the root of a git repository or worktree.
func (d *GitDetector) IsRepository(dir string) bool {
	_, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          false,
		EnableDotGitCommonDir: true,
	})
	return err == nil
}
