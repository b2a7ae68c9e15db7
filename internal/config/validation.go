package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Validate checks config values for correctness.
// Every violation is collected and reported in a single error.
func (c *Config) Validate() error {
	var errs []string

	if c.Workspace.MaxTraversalDepth < 1 {
		errs = append(errs, "workspace.max_traversal_depth must be >= 1")
	}
	if c.Workspace.ResolveTimeoutMs < 1 {
		errs = append(errs, "workspace.resolve_timeout_ms must be >= 1")
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil || c.Logging.Level == "" {
		errs = append(errs, fmt.Sprintf("logging.level %q is not a known level", c.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
