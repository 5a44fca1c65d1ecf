package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vectra-ml/vectra/internal/pooling"
)

// ConfigFileName is the name of the vectra configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the vectra configuration directory
const ConfigDirName = ".vectra"

// Config holds all vectra configuration
type Config struct {
	Models    ModelsConfig    `yaml:"models"`
	Runtime   RuntimeConfig   `yaml:"runtime"`
	Vectorize VectorizeConfig `yaml:"vectorize"`
	Explore   ExploreConfig   `yaml:"explore"`
}

// ModelsConfig holds configuration for model artifact lookup
type ModelsConfig struct {
	Dir     string `yaml:"dir"`
	Default string `yaml:"default"`
}

// RuntimeConfig holds configuration for the inference runtime
type RuntimeConfig struct {
	OnnxLibrary string `yaml:"onnx_library"`
}

// VectorizeConfig holds default options for vectorization
type VectorizeConfig struct {
	MaxLen          int    `yaml:"max_len"`
	BatchSize       int    `yaml:"batch_size"`
	Layer           int    `yaml:"layer"`
	WordPooling     string `yaml:"word_pooling"`
	SentencePooling string `yaml:"sentence_pooling"`
}

// ExploreConfig holds default options for clustering and keyword extraction
type ExploreConfig struct {
	Language string `yaml:"language"`
	TopN     int    `yaml:"top_n"`
	MinFreq  int    `yaml:"min_freq"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .vectra/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		// No config dir found, return defaults
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .vectra directory by walking up from startDir.
// Returns the path to the .vectra directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .vectra directory if it doesn't exist.
// Returns the path to the .vectra directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
// Returns an error if validation fails.
func Validate(cfg *Config) error {
	if _, err := pooling.ParseWordMethod(cfg.Vectorize.WordPooling); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if _, err := pooling.ParseSentenceMethod(cfg.Vectorize.SentencePooling); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if cfg.Vectorize.MaxLen <= 0 {
		return fmt.Errorf("%w: max_len must be positive, got %d",
			ErrInvalidConfig, cfg.Vectorize.MaxLen)
	}

	if cfg.Vectorize.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive, got %d",
			ErrInvalidConfig, cfg.Vectorize.BatchSize)
	}

	if cfg.Vectorize.Layer < 1 {
		return fmt.Errorf("%w: layer must be at least 1, got %d",
			ErrInvalidConfig, cfg.Vectorize.Layer)
	}

	if cfg.Explore.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d",
			ErrInvalidConfig, cfg.Explore.TopN)
	}

	if cfg.Explore.MinFreq <= 0 {
		return fmt.Errorf("%w: min_freq must be positive, got %d",
			ErrInvalidConfig, cfg.Explore.MinFreq)
	}

	return nil
}

// SaveDefault writes the default configuration to .vectra/config.yaml in
// workDir. Creates the .vectra directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# vectra configuration\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
