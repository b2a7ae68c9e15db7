package scaffold

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Cyclone1070/aicontext/internal/fsutil"
	"github.com/Cyclone1070/aicontext/internal/workspace/boundary"
	"github.com/Cyclone1070/aicontext/internal/workspace/structure"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFileInfo implements os.FileInfo for testing
type mockFileInfo struct {
	isDir bool
}

func (m *mockFileInfo) Name() string       { return "mock" }
func (m *mockFileInfo) Size() int64        { return 0 }
func (m *mockFileInfo) Mode() os.FileMode  { return 0o644 }
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return nil }

// mockFileSystem records writes in memory and fails operations on request.
type mockFileSystem struct {
	files      map[string][]byte
	dirs       map[string]bool
	statErr    map[string]error
	writeErr   map[string]error
	ensureErr  map[string]error
	writeCalls int
}

func newMockFileSystem() *mockFileSystem {
	return &mockFileSystem{
		files:     make(map[string][]byte),
		dirs:      make(map[string]bool),
		statErr:   make(map[string]error),
		writeErr:  make(map[string]error),
		ensureErr: make(map[string]error),
	}
}

func (m *mockFileSystem) Stat(path string) (os.FileInfo, error) {
	if err, ok := m.statErr[path]; ok {
		return nil, err
	}
	if m.dirs[path] {
		return &mockFileInfo{isDir: true}, nil
	}
	if _, ok := m.files[path]; ok {
		return &mockFileInfo{}, nil
	}
	return nil, os.ErrNotExist
}

func (m *mockFileSystem) EnsureDirs(path string) error {
	if err, ok := m.ensureErr[path]; ok {
		return err
	}
	m.dirs[path] = true
	return nil
}

func (m *mockFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	m.writeCalls++
	if err, ok := m.writeErr[path]; ok {
		return err
	}
	m.files[path] = content
	return nil
}

const root = "/workspace/.context"

func newTestWriter(t *testing.T, fs fileWriter, logs *bytes.Buffer) *Writer {
	t.Helper()
	w, err := NewWriter(fs, root, zerolog.New(logs))
	require.NoError(t, err)
	return w
}

func TestWriteAll_WritesInsideWorkspace(t *testing.T) {
	fs := newMockFileSystem()
	w := newTestWriter(t, fs, &bytes.Buffer{})

	report := w.WriteAll([]File{
		{Path: "docs/overview.md", Content: "# Overview"},
		{Path: "agents/reviewer.md", Content: "reviewer"},
		{Path: root + "/rules/style.md", Content: "style"},
	})

	assert.True(t, report.OK())
	assert.Equal(t, []string{
		root + "/docs/overview.md",
		root + "/agents/reviewer.md",
		root + "/rules/style.md",
	}, report.Written)
	assert.Equal(t, []byte("# Overview"), fs.files[root+"/docs/overview.md"])
	assert.True(t, fs.dirs[root+"/docs"])
}

func TestWriteAll_SkipsBoundaryViolationsAndContinues(t *testing.T) {
	fs := newMockFileSystem()
	var logs bytes.Buffer
	w := newTestWriter(t, fs, &logs)

	report := w.WriteAll([]File{
		{Path: "../../etc/passwd", Content: "x"},
		{Path: "docs/a.md", Content: "a"},
		{Path: "%2e%2e/secrets", Content: "x"},
		{Path: "docs/b.md\x00.txt", Content: "x"},
		{Path: "/etc/hosts", Content: "x"},
		{Path: "docs/c.md", Content: "c"},
	})

	assert.False(t, report.OK())
	assert.Equal(t, []string{root + "/docs/a.md", root + "/docs/c.md"}, report.Written)
	require.Len(t, report.Skipped, 4)
	assert.Equal(t, boundary.ReasonTraversal, report.Skipped[0].Reason)
	assert.Equal(t, boundary.ReasonEncodedTraversal, report.Skipped[1].Reason)
	assert.Equal(t, boundary.ReasonNullByte, report.Skipped[2].Reason)
	assert.Equal(t, "/etc/hosts", report.Skipped[3].AttemptedPath)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 2, fs.writeCalls, "rejected paths must never reach the filesystem")

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	require.Len(t, entries, 4)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "../../etc/passwd", entries[0]["attempted_path"])
	assert.Equal(t, string(boundary.ReasonTraversal), entries[0]["reason"])
	assert.Equal(t, "scaffold", entries[0]["component"])
}

func TestWriteAll_ExistingFiles(t *testing.T) {
	fs := newMockFileSystem()
	fs.files[root+"/docs/keep.md"] = []byte("original")
	fs.files[root+"/docs/replace.md"] = []byte("original")
	w := newTestWriter(t, fs, &bytes.Buffer{})

	report := w.WriteAll([]File{
		{Path: "docs/keep.md", Content: "new"},
		{Path: "docs/replace.md", Content: "new", Overwrite: true},
	})

	assert.True(t, report.OK())
	assert.Equal(t, []string{root + "/docs/keep.md"}, report.Kept)
	assert.Equal(t, []string{root + "/docs/replace.md"}, report.Written)
	assert.Equal(t, []byte("original"), fs.files[root+"/docs/keep.md"])
	assert.Equal(t, []byte("new"), fs.files[root+"/docs/replace.md"])
}

func TestWriteAll_RecordsIOFailures(t *testing.T) {
	diskFull := errors.New("no space left on device")
	denied := errors.New("permission denied")

	fs := newMockFileSystem()
	fs.writeErr[root+"/docs/full.md"] = diskFull
	fs.statErr[root+"/docs/locked.md"] = denied
	fs.ensureErr[root+"/plans"] = denied
	fs.dirs[root+"/docs/dir.md"] = true
	w := newTestWriter(t, fs, &bytes.Buffer{})

	report := w.WriteAll([]File{
		{Path: "docs/full.md", Content: "x"},
		{Path: "docs/locked.md", Content: "x"},
		{Path: "plans/next.md", Content: "x"},
		{Path: "docs/dir.md", Content: "x", Overwrite: true},
		{Path: "", Content: "x"},
		{Path: "docs/ok.md", Content: "x"},
	})

	assert.Equal(t, []string{root + "/docs/ok.md"}, report.Written)
	require.Len(t, report.Failed, 5)

	var writeErr *WriteError
	require.True(t, errors.As(report.Failed[0].Err, &writeErr))
	assert.ErrorIs(t, writeErr, diskFull)

	var io []bool
	for _, f := range report.Failed {
		io = append(io, f.IO)
	}
	assert.Equal(t, []bool{true, true, true, false, false}, io)

	var statErr *StatError
	require.True(t, errors.As(report.Failed[1].Err, &statErr))
	assert.Equal(t, root+"/docs/locked.md", statErr.Path)

	var ensureErr *EnsureDirsError
	require.True(t, errors.As(report.Failed[2].Err, &ensureErr))
	assert.Equal(t, root+"/plans", ensureErr.Path)

	assert.ErrorIs(t, report.Failed[3].Err, ErrIsDirectory)
	assert.ErrorIs(t, report.Failed[4].Err, ErrPathRequired)
}

func TestWrite_DefaultPermission(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(fsutil.NewOSFileSystem(), dir, zerolog.Nop())
	require.NoError(t, err)

	abs, err := w.Write(File{Path: "docs/a.md", Content: "a"})
	require.NoError(t, err)
	info, err := os.Stat(abs)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	abs, err = w.Write(File{Path: "workflow/run.sh", Content: "#!/bin/sh", Perm: 0o755})
	require.NoError(t, err)
	info, err = os.Stat(abs)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestInit(t *testing.T) {
	rootPath := filepath.Join(t.TempDir(), ".context")

	w, err := NewOSWriter(rootPath, zerolog.Nop())
	require.NoError(t, err)
	dirs, err := w.Init()
	require.NoError(t, err)
	require.Len(t, dirs, len(structure.StandardDirectories))

	validation := structure.NewValidator(fsutil.NewOSFileSystem()).Validate(rootPath)
	assert.True(t, validation.IsValid)
	assert.Empty(t, validation.MissingDirectories)

	// Existing content survives a second run.
	marker := filepath.Join(rootPath, structure.DocsDir, "keep.md")
	require.NoError(t, os.WriteFile(marker, []byte("keep"), 0o644))
	_, err = w.Init()
	require.NoError(t, err)
	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestInit_EnsureDirsFailure(t *testing.T) {
	fs := newMockFileSystem()
	fs.ensureErr[root+"/rules"] = errors.New("read-only file system")
	w := newTestWriter(t, fs, &bytes.Buffer{})

	_, err := w.Init()

	var ensureErr *EnsureDirsError
	require.True(t, errors.As(err, &ensureErr))
	assert.Equal(t, root+"/rules", ensureErr.Path)
}

func TestNewWriter(t *testing.T) {
	_, err := NewWriter(newMockFileSystem(), "", zerolog.Nop())
	assert.ErrorIs(t, err, boundary.ErrWorkspaceRootNotSet)

	assert.Panics(t, func() { _, _ = NewWriter(nil, root, zerolog.Nop()) })
}

func TestStandardFiles(t *testing.T) {
	rootPath := filepath.Join(t.TempDir(), ".context")
	w, err := NewOSWriter(rootPath, zerolog.Nop())
	require.NoError(t, err)
	_, err = w.Init()
	require.NoError(t, err)

	report := w.WriteAll(StandardFiles())

	require.True(t, report.OK())
	require.Len(t, report.Written, len(structure.StandardDirectories))
	for i, name := range structure.StandardDirectories {
		rel, err := w.Rel(report.Written[i])
		require.NoError(t, err)
		assert.Equal(t, name+"/README.md", rel)

		data, err := os.ReadFile(report.Written[i])
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "# "+name+"\n"))
	}

	// A user-edited README survives a second run.
	edited := filepath.Join(rootPath, structure.RulesDir, "README.md")
	require.NoError(t, os.WriteFile(edited, []byte("house rules"), 0o644))

	report = w.WriteAll(StandardFiles())

	assert.True(t, report.OK())
	assert.Empty(t, report.Written)
	assert.Len(t, report.Kept, len(structure.StandardDirectories))
	data, err := os.ReadFile(edited)
	require.NoError(t, err)
	assert.Equal(t, "house rules", string(data))
}
