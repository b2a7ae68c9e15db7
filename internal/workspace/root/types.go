package root

import (
	"encoding/json"

	"github.com/Cyclone1070/aicontext/internal/workspace/structure"
)

// DirName is the name of the workspace root directory inside a project.
const DirName = ".context"

// gitMarker is the version-control root marker looked for by the git-root strategy.
const gitMarker = ".git"

const (
	DefaultMaxTraversalDepth = 10
	DefaultTimeoutMs         = 5000
)

// FoundBy records which strategy produced a Result.
type FoundBy string

const (
	FoundByParameter       FoundBy = "parameter"
	FoundByDirectSubdir    FoundBy = "direct-subdir"
	FoundByUpwardTraversal FoundBy = "upward-traversal"
	FoundByGitRoot         FoundBy = "git-root"
	FoundByManifestConfig  FoundBy = "manifest-config"
	FoundByCwdFallback     FoundBy = "cwd-fallback"
)

// Request holds the inputs of a single resolution.
// Zero MaxTraversalDepth or TimeoutMs select the package defaults.
type Request struct {
	StartPath         string
	MaxTraversalDepth int
	TimeoutMs         int
	Validate          bool
	CheckManifest     bool
}

// Result is the outcome of a resolution. RootPath is always absolute and
// cleaned; Exists=false only means nothing has been generated there yet.
// IsValid and Validation are set only when the request asked for validation.
type Result struct {
	RootPath    string                `json:"rootPath"`
	ProjectRoot string                `json:"projectRoot"`
	Exists      bool                  `json:"exists"`
	FoundBy     FoundBy               `json:"foundBy"`
	IsValid     bool                  `json:"isValid"`
	Validation  *structure.Validation `json:"validation,omitempty"`
	Warning     string                `json:"warning,omitempty"`
}

// MarshalJSON omits isValid when validation was not requested, so an
// unchecked root is not reported as invalid.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	out := struct {
		plain
		IsValid *bool `json:"isValid,omitempty"`
	}{plain: plain(r)}
	if r.Validation != nil {
		out.IsValid = &r.IsValid
	}
	return json.Marshal(out)
}
