package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// ConfigDir is the directory name under the XDG config home
	ConfigDir = "aicontext"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
)

var errNoConfigHome = errors.New("config home directory not set")

// FileSystem abstracts file operations for testability
type FileSystem interface {
	ConfigHome() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

// ConfigHome returns $XDG_CONFIG_HOME, or the platform default when unset.
func (ConfigFileReader) ConfigHome() (string, error) {
	if xdg.ConfigHome == "" {
		return "", errNoConfigHome
	}
	return xdg.ConfigHome, nil
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs FileSystem
}

// NewLoader creates a production Loader using the real filesystem
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Path returns the config file location for the current user, or "" when the
// home directory cannot be determined.
func (l *Loader) Path() string {
	configHome, err := l.fs.ConfigHome()
	if err != nil {
		return ""
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads configuration from $XDG_CONFIG_HOME/aicontext/config.json
// and merges it with defaults. Dotfile values override defaults.
// Returns default config if dotfile doesn't exist.
// Returns error only for parse errors, permission issues, or validation failures.
//
// JSON keys are unmarshalled directly over the default configuration, so
// explicit zero values (0, false, "") in the file override defaults.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := l.Path()
	if configPath == "" {
		return cfg, nil // Use defaults if can't get home dir
	}

	data, err := l.fs.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is a convenience function using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}
