package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Detection selects how strictly a document is recognized as JSON Schema.
type Detection string

const (
	// DetectionStrict requires "$schema" plus "type" or "properties".
	DetectionStrict Detection = "strict"
	// DetectionMarker treats any document carrying "$schema" as a schema.
	DetectionMarker Detection = "marker"
)

// DefaultDebounce is how long the watcher waits after the last change.
const DefaultDebounce = 500 * time.Millisecond

// Config represents the complete configuration for json2raml
type Config struct {
	IncludeSourceAsExample bool         `yaml:"include_source_as_example"`
	Detection              Detection    `yaml:"detection"`
	Input                  InputConfig  `yaml:"input"`
	Output                 OutputConfig `yaml:"output"`
	Watch                  WatchConfig  `yaml:"watch"`
	Dev                    DevConfig    `yaml:"dev"`
}

// InputConfig controls how source text is read
type InputConfig struct {
	AllowComments bool `yaml:"allow_comments"`
}

// OutputConfig controls output file naming
type OutputConfig struct {
	Extension       string `yaml:"extension"`
	PascalCaseNames bool   `yaml:"pascal_case_names"`
}

// WatchConfig controls watch mode
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		IncludeSourceAsExample: false,
		Detection:              DetectionStrict,
		Input: InputConfig{
			AllowComments: false,
		},
		Output: OutputConfig{
			Extension:       ".raml",
			PascalCaseNames: true,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(fsys afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in startDir and its parents
func FindConfigFile(fsys afero.Fs, startDir string) string {
	configNames := []string{".json2raml.yml", ".json2raml.yaml", "json2raml.yml", "json2raml.yaml"}

	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if info, err := fsys.Stat(configPath); err == nil && !info.IsDir() {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks option values that YAML decoding cannot
func (c *Config) Validate() error {
	switch c.Detection {
	case DetectionStrict, DetectionMarker:
	default:
		return fmt.Errorf("invalid detection mode '%s': must be '%s' or '%s'", c.Detection, DetectionStrict, DetectionMarker)
	}
	if c.Output.Extension == "" {
		return fmt.Errorf("output extension must not be empty")
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch debounce must be positive, got %s", c.Watch.Debounce)
	}
	return nil
}

// Overrides holds CLI flag values. Zero values leave the config untouched.
type Overrides struct {
	IncludeSourceAsExample bool
	AllowComments          bool
	Detection              string
	Debug                  bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(fsys afero.Fs, configPath string, cli Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(fsys, configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	// Boolean flags can only switch options on
	if cli.IncludeSourceAsExample {
		cfg.IncludeSourceAsExample = true
	}
	if cli.AllowComments {
		cfg.Input.AllowComments = true
	}
	if cli.Debug {
		cfg.Dev.Debug = true
	}
	if cli.Detection != "" {
		cfg.Detection = Detection(cli.Detection)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
