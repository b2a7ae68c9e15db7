package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Workspace WorkspaceConfig `json:"workspace"`
	Logging   LoggingConfig   `json:"logging"`
}

type WorkspaceConfig struct {
	// Root resolution
	MaxTraversalDepth int  `json:"max_traversal_depth"` // Default: 10
	ResolveTimeoutMs  int  `json:"resolve_timeout_ms"`  // Default: 5000
	CheckManifest     bool `json:"check_manifest"`      // Default: true

	// Structure validation
	ValidateStructure bool `json:"validate_structure"` // Default: true
}

type LoggingConfig struct {
	Level string `json:"level"` // Default: "info"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			MaxTraversalDepth: 10,
			ResolveTimeoutMs:  5000,
			CheckManifest:     true,
			ValidateStructure: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
