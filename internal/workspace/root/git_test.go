package root

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitDetector_IsRepository(t *testing.T) {
	t.Run("initialised repository", func(t *testing.T) {
		dir := tempDir(t)
		_, err := git.PlainInit(dir, false)
		require.NoError(t, err)

		assert.True(t, NewGitDetector().IsRepository(dir))
	})

	t.Run("empty .git directory", func(t *testing.T) {
		dir := tempDir(t)
		mkdir(t, dir, gitMarker)

		assert.False(t, NewGitDetector().IsRepository(dir))
	})

	t.Run("plain directory", func(t *testing.T) {
		assert.False(t, NewGitDetector().IsRepository(tempDir(t)))
	})

	t.Run("subdirectory of a repository is not its root", func(t *testing.T) {
		dir := tempDir(t)
		_, err := git.PlainInit(dir, false)
		require.NoError(t, err)
		sub := mkdir(t, dir, "src")

		assert.False(t, NewGitDetector().IsRepository(sub))
	})
}

func TestResolve_GitRoot(t *testing.T) {
	tmp := tempDir(t)
	repo := mkdir(t, tmp, "repo")
	_, err := git.PlainInit(repo, false)
	require.NoError(t, err)
	start := mkdir(t, repo, "services", "api")

	res := newTestResolver(NewGitDetector()).Resolve(Request{StartPath: start})

	assert.Equal(t, FoundByGitRoot, res.FoundBy)
	assert.Equal(t, filepath.Join(repo, DirName), res.RootPath)
	assert.Equal(t, repo, res.ProjectRoot)
	assert.False(t, res.Exists)
	assert.Empty(t, res.Warning)
}

func TestResolve_UpwardTraversalBeatsGitRoot(t *testing.T) {
	tmp := tempDir(t)
	repo := mkdir(t, tmp, "repo")
	_, err := git.PlainInit(repo, false)
	require.NoError(t, err)
	ws := mkdir(t, repo, "services", DirName)
	start := mkdir(t, repo, "services", "api")

	res := newTestResolver(NewGitDetector()).Resolve(Request{StartPath: start})

	assert.Equal(t, FoundByUpwardTraversal, res.FoundBy)
	assert.Equal(t, ws, res.RootPath)
}

func TestResolve_BogusGitMarkerFallsBack(t *testing.T) {
	tmp := tempDir(t)
	mkdir(t, tmp, gitMarker)
	start := mkdir(t, tmp, "src")

	res := newTestResolver(NewGitDetector()).Resolve(Request{StartPath: start, MaxTraversalDepth: 1})

	assert.Equal(t, FoundByCwdFallback, res.FoundBy)
}
