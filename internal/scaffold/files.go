package scaffold

import (
	"fmt"

	"github.com/Cyclone1070/aicontext/internal/workspace/structure"
)

const readmeName = "README.md"

var directoryPurpose = map[string]string{
	structure.DocsDir:     "Project documentation written for AI agents.",
	structure.AgentsDir:   "Agent definitions and their instructions.",
	structure.WorkflowDir: "Workflows agents follow, step by step.",
	structure.PlansDir:    "Implementation plans and their status.",
	structure.RulesDir:    "Rules and conventions every agent must respect.",
}

// StandardFiles returns a README for each standard directory. Existing
// READMEs are never overwritten.
func StandardFiles() []File {
	files := make([]File, 0, len(structure.StandardDirectories))
	for _, dir := range structure.StandardDirectories {
		files = append(files, File{
			Path:    dir + "/" + readmeName,
			Content: fmt.Sprintf("# %s\n\n%s\n", dir, directoryPurpose[dir]),
		})
	}
	return files
}
