package root

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

const (
	// PackageManifest is a package.json whose "aiContext" object may carry the override.
	PackageManifest = "package.json"
	// YAMLManifest is a dedicated manifest whose top level carries the override.
	YAMLManifest = ".aicontext.yaml"

	packageManifestKey = "aiContext"
)

var errInvalidJSON = errors.New("invalid JSON")

// ManifestError is returned when a manifest exists but cannot be parsed or
// does not have the expected shape.
type ManifestError struct {
	Path  string
	Cause error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.Cause)
}

func (e *ManifestError) Unwrap() error { return e.Cause }

// ManifestConfig is the typed override section of a project manifest.
type ManifestConfig struct {
	ContextRoot string `mapstructure:"contextRoot"`
}

// manifestSource extracts the untyped override section from a manifest file.
type manifestSource struct {
	file    string
	section func(data []byte) (any, error)
}

// manifestSources are consulted in order; the first declaring a contextRoot wins.
var manifestSources = []manifestSource{
	{file: PackageManifest, section: packageJSONSection},
	{file: YAMLManifest, section: yamlSection},
}

func packageJSONSection(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, errInvalidJSON
	}
	return gjson.GetBytes(data, packageManifestKey).Value(), nil
}

func yamlSection(data []byte) (any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, nil
	}
	return doc, nil
}

// decodeManifest converts an untyped section into ManifestConfig. A section of
// the wrong shape (e.g. a numeric contextRoot) is an error, not an empty value.
func decodeManifest(section any) (ManifestConfig, error) {
	var cfg ManifestConfig
	if section == nil {
		return cfg, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(section); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FileReader reads whole files.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// ReadManifest reads the override declared by the manifests in dir. It returns
// an empty config when no manifest declares one.
func ReadManifest(fs FileReader, dir string) (ManifestConfig, error) {
	for _, src := range manifestSources {
		path := filepath.Join(dir, src.file)
		data, err := fs.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return ManifestConfig{}, &ManifestError{Path: path, Cause: err}
		}

		section, err := src.section(data)
		if err != nil {
			return ManifestConfig{}, &ManifestError{Path: path, Cause: err}
		}
		cfg, err := decodeManifest(section)
		if err != nil {
			return ManifestConfig{}, &ManifestError{Path: path, Cause: err}
		}
		if cfg.ContextRoot != "" {
			return cfg, nil
		}
	}
	return ManifestConfig{}, nil
}

// manifestOverride returns the absolute override path declared in dir, if any.
// Relative overrides are resolved against the manifest's directory.
func (r *Resolver) manifestOverride(dir string) (string, bool) {
	cfg, err := ReadManifest(r.fs, dir)
	if err != nil {
		r.logger.Warn().Err(err).Str("dir", dir).Msg("ignoring unreadable manifest")
		return "", false
	}
	if cfg.ContextRoot == "" {
		return "", false
	}

	override := cfg.ContextRoot
	if !filepath.IsAbs(override) {
		override = filepath.Join(dir, override)
	}
	return filepath.Clean(override), true
}
