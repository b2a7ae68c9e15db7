// Package structure checks that a workspace root has the expected layout.
package structure

import (
	"os"
	"path/filepath"
)

// Expected subdirectory names of a workspace root, in reporting order.
const (
	DocsDir     = "docs"
	AgentsDir   = "agents"
	WorkflowDir = "workflow"
	PlansDir    = "plans"
	RulesDir    = "rules"
)

// StandardDirectories lists every subdirectory a complete workspace root holds.
var StandardDirectories = []string{DocsDir, AgentsDir, WorkflowDir, PlansDir, RulesDir}

// Validation describes which expected subdirectories are present.
type Validation struct {
	HasDocs            bool     `json:"hasDocs"`
	HasAgents          bool     `json:"hasAgents"`
	HasWorkflow        bool     `json:"hasWorkflow"`
	HasPlans           bool     `json:"hasPlans"`
	HasRules           bool     `json:"hasRules"`
	MissingDirectories []string `json:"missingDirectories"`
	IsValid            bool     `json:"isValid"`
}

// fileSystem defines the minimal filesystem interface needed for validation.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
}

// Validator classifies a candidate workspace root.
type Validator struct {
	fs fileSystem
}

// NewValidator creates a Validator backed by fs.
func NewValidator(fs fileSystem) *Validator {
	if fs == nil {
		panic("fs is required")
	}
	return &Validator{fs: fs}
}

// Validate stats each expected subdirectory of rootPath. It never fails: a
// missing or unreadable root reports every directory as missing.
// The root is valid when docs or agents is a directory.
func (v *Validator) Validate(rootPath string) Validation {
	result := Validation{MissingDirectories: []string{}}

	for _, name := range StandardDirectories {
		present := v.checkDir(rootPath, name, &result.MissingDirectories)
		switch name {
		case DocsDir:
			result.HasDocs = present
		case AgentsDir:
			result.HasAgents = present
		case WorkflowDir:
			result.HasWorkflow = present
		case PlansDir:
			result.HasPlans = present
		case RulesDir:
			result.HasRules = present
		}
	}

	result.IsValid = result.HasDocs || result.HasAgents
	return result
}

// checkDir reports whether name is a directory under root, appending to
// missing when it is absent or of the wrong type.
func (v *Validator) checkDir(root, name string, missing *[]string) bool {
	info, err := v.fs.Stat(filepath.Join(root, name))
	if err != nil {
		*missing = append(*missing, name)
		return false
	}
	if !info.IsDir() {
		*missing = append(*missing, name+" exists but is not a directory")
		return false
	}
	return true
}
