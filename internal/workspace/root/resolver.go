// Package root locates the .context workspace root for a starting directory.
//
// Strategies are tried in a fixed order and the first hit wins: parameter,
// direct-subdir, manifest-config, upward-traversal, git-root. When all of
// them miss, or the wall-clock budget runs out, the resolver falls back to a
// workspace root beneath the starting directory and says so in Warning.
package root

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Cyclone1070/aicontext/internal/fsutil"
	"github.com/Cyclone1070/aicontext/internal/workspace/structure"
	"github.com/rs/zerolog"
)

// fileSystem defines the minimal filesystem interface needed for resolution.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// structureValidator classifies a resolved workspace root.
type structureValidator interface {
	Validate(rootPath string) structure.Validation
}

// repoDetector confirms that a directory holding a .git marker is a repository.
type repoDetector interface {
	IsRepository(dir string) bool
}

// Resolver finds workspace roots. It keeps no state between calls.
type Resolver struct {
	fs        fileSystem
	validator structureValidator
	repos     repoDetector
	logger    zerolog.Logger
	now       func() time.Time
}

// NewResolver creates a Resolver with injected dependencies.
func NewResolver(fs fileSystem, validator structureValidator, repos repoDetector, logger zerolog.Logger) *Resolver {
	if fs == nil {
		panic("fs is required")
	}
	if validator == nil {
		panic("validator is required")
	}
	if repos == nil {
		panic("repos is required")
	}
	return &Resolver{
		fs:        fs,
		validator: validator,
		repos:     repos,
		logger:    logger,
		now:       time.Now,
	}
}

// NewDefaultResolver wires a Resolver to the OS filesystem and go-git.
func NewDefaultResolver(logger zerolog.Logger) *Resolver {
	osFS := fsutil.NewOSFileSystem()
	return NewResolver(osFS, structure.NewValidator(osFS), NewGitDetector(), logger)
}

// maxTimeoutMs is the largest budget that converts to a time.Duration without overflow.
const maxTimeoutMs = math.MaxInt64 / int(time.Millisecond)

// deadline is a wall-clock budget checked between strategies and traversal hops.
type deadline struct {
	at      time.Time
	now     func() time.Time
	expired bool
}

func (d *deadline) passed() bool {
	if !d.expired && !d.now().Before(d.at) {
		d.expired = true
	}
	return d.expired
}

// Resolve finds the workspace root for req.StartPath. It never fails: when no
// strategy succeeds it returns a cwd-fallback result with Warning set.
func (r *Resolver) Resolve(req Request) Result {
	start := absPath(req.StartPath)

	depth := req.MaxTraversalDepth
	if depth <= 0 {
		depth = DefaultMaxTraversalDepth
	}
	timeoutMs := req.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = DefaultTimeoutMs
	}
	timeoutMs = min(timeoutMs, maxTimeoutMs)
	dl := &deadline{at: r.now().Add(time.Duration(timeoutMs) * time.Millisecond), now: r.now}

	result, ok := r.search(start, depth, req.CheckManifest, dl)
	if !ok {
		result = r.fallback(start, timeoutMs, dl.expired)
	}

	if req.Validate {
		r.annotate(&result)
	}

	r.logger.Debug().
		Str("start", start).
		Str("foundBy", string(result.FoundBy)).
		Str("root", result.RootPath).
		Bool("exists", result.Exists).
		Msg("resolved workspace root")

	return result
}

// search runs every strategy in precedence order and reports whether one hit.
func (r *Resolver) search(start string, depth int, checkManifest bool, dl *deadline) (Result, bool) {
	if res, ok := r.fromParameter(start); ok {
		return res, true
	}

	if dl.passed() {
		return Result{}, false
	}
	if res, ok := r.fromDirectSubdir(start); ok {
		return res, true
	}

	if checkManifest {
		if dl.passed() {
			return Result{}, false
		}
		if res, ok := r.fromManifest(start); ok {
			return res, true
		}
	}

	if res, ok := r.fromAncestors(start, depth, dl); ok {
		return res, true
	}

	if res, ok := r.fromGitRoot(start, depth, dl); ok {
		return res, true
	}

	return Result{}, false
}

// fromParameter accepts start when it already is a workspace root directory.
func (r *Resolver) fromParameter(start string) (Result, bool) {
	if filepath.Base(start) != DirName || !r.isDir(start) {
		return Result{}, false
	}
	return r.found(FoundByParameter, start, filepath.Dir(start)), true
}

// fromDirectSubdir prefers a workspace root directly inside start over any ancestor's.
func (r *Resolver) fromDirectSubdir(start string) (Result, bool) {
	candidate := filepath.Join(start, DirName)
	if !r.isDir(candidate) {
		return Result{}, false
	}
	return r.found(FoundByDirectSubdir, candidate, start), true
}

// fromManifest uses an explicit override declared by a manifest in start.
func (r *Resolver) fromManifest(start string) (Result, bool) {
	override, ok := r.manifestOverride(start)
	if !ok {
		return Result{}, false
	}
	return r.found(FoundByManifestConfig, override, filepath.Dir(override)), true
}

// fromAncestors walks up to depth parents of start looking for a workspace root.
func (r *Resolver) fromAncestors(start string, depth int, dl *deadline) (Result, bool) {
	cur := start
	for hop := 1; hop <= depth; hop++ {
		if dl.passed() {
			return Result{}, false
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return Result{}, false
		}
		cur = parent

		candidate := filepath.Join(cur, DirName)
		if r.isDir(candidate) {
			return r.found(FoundByUpwardTraversal, candidate, cur), true
		}
	}
	return Result{}, false
}

// fromGitRoot walks from start upward looking for a repository root and places
// the workspace root beneath it, whether or not it exists yet.
func (r *Resolver) fromGitRoot(start string, depth int, dl *deadline) (Result, bool) {
	cur := start
	for hop := 0; hop <= depth; hop++ {
		if dl.passed() {
			return Result{}, false
		}
		if r.exists(filepath.Join(cur, gitMarker)) && r.repos.IsRepository(cur) {
			return r.found(FoundByGitRoot, filepath.Join(cur, DirName), cur), true
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return Result{}, false
		}
		cur = parent
	}
	return Result{}, false
}

// fallback synthesises a workspace root beneath start.
func (r *Resolver) fallback(start string, timeoutMs int, timedOut bool) Result {
	rootPath := filepath.Join(start, DirName)

	var warning string
	if timedOut {
		warning = fmt.Sprintf("workspace root resolution timed out after %dms; using %s", timeoutMs, rootPath)
	} else {
		warning = fmt.Sprintf("no %s workspace found from %s; using %s", DirName, start, rootPath)
	}

	r.logger.Warn().
		Str("start", start).
		Bool("timedOut", timedOut).
		Msg(warning)

	return Result{
		RootPath:    rootPath,
		ProjectRoot: start,
		Exists:      false,
		FoundBy:     FoundByCwdFallback,
		Warning:     warning,
	}
}

// annotate runs structure validation on the resolved root and records the outcome.
func (r *Resolver) annotate(result *Result) {
	v := r.validator.Validate(result.RootPath)
	result.IsValid = v.IsValid
	result.Validation = &v
	if v.IsValid {
		return
	}

	msg := fmt.Sprintf("workspace root %s is not usable: missing %s", result.RootPath, strings.Join(v.MissingDirectories, ", "))
	if result.Warning != "" {
		result.Warning += "; " + msg
	} else {
		result.Warning = msg
	}
}

func (r *Resolver) found(by FoundBy, rootPath, projectRoot string) Result {
	return Result{
		RootPath:    rootPath,
		ProjectRoot: projectRoot,
		Exists:      r.isDir(rootPath),
		FoundBy:     by,
	}
}

func (r *Resolver) isDir(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && info.IsDir()
}

func (r *Resolver) exists(path string) bool {
	_, err := r.fs.Stat(path)
	return err == nil
}

// absPath makes path absolute and cleaned. An empty path means the working directory.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
