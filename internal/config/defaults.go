package config

import (
	"os"
	"path/filepath"
)

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Models: ModelsConfig{
			Dir:     defaultModelsDir(),
			Default: "flaubert",
		},
		Runtime: RuntimeConfig{
			OnnxLibrary: "",
		},
		Vectorize: VectorizeConfig{
			MaxLen:          256,
			BatchSize:       50,
			Layer:           11,
			WordPooling:     "average",
			SentencePooling: "average",
		},
		Explore: ExploreConfig{
			Language: "fr",
			TopN:     10,
			MinFreq:  3,
		},
	}
}

func defaultModelsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".vectra", "models")
	}
	return filepath.Join(home, ".vectra", "models")
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Models = mergeModelsConfig(loaded.Models, defaults.Models)
	result.Runtime = mergeRuntimeConfig(loaded.Runtime, defaults.Runtime)
	result.Vectorize = mergeVectorizeConfig(loaded.Vectorize, defaults.Vectorize)
	result.Explore = mergeExploreConfig(loaded.Explore, defaults.Explore)

	return result
}

func mergeModelsConfig(loaded, defaults ModelsConfig) ModelsConfig {
	result := ModelsConfig{}

	if loaded.Dir != "" {
		result.Dir = loaded.Dir
	} else {
		result.Dir = defaults.Dir
	}

	if loaded.Default != "" {
		result.Default = loaded.Default
	} else {
		result.Default = defaults.Default
	}

	return result
}

func mergeRuntimeConfig(loaded, defaults RuntimeConfig) RuntimeConfig {
	result := RuntimeConfig{}

	if loaded.OnnxLibrary != "" {
		result.OnnxLibrary = loaded.OnnxLibrary
	} else {
		result.OnnxLibrary = defaults.OnnxLibrary
	}

	return result
}

func mergeVectorizeConfig(loaded, defaults VectorizeConfig) VectorizeConfig {
	result := VectorizeConfig{}

	if loaded.MaxLen != 0 {
		result.MaxLen = loaded.MaxLen
	} else {
		result.MaxLen = defaults.MaxLen
	}

	if loaded.BatchSize != 0 {
		result.BatchSize = loaded.BatchSize
	} else {
		result.BatchSize = defaults.BatchSize
	}

	if loaded.Layer != 0 {
		result.Layer = loaded.Layer
	} else {
		result.Layer = defaults.Layer
	}

	if loaded.WordPooling != "" {
		result.WordPooling = loaded.WordPooling
	} else {
		result.WordPooling = defaults.WordPooling
	}

	if loaded.SentencePooling != "" {
		result.SentencePooling = loaded.SentencePooling
	} else {
		result.SentencePooling = defaults.SentencePooling
	}

	return result
}

func mergeExploreConfig(loaded, defaults ExploreConfig) ExploreConfig {
	result := ExploreConfig{}

	if loaded.Language != "" {
		result.Language = loaded.Language
	} else {
		result.Language = defaults.Language
	}

	if loaded.TopN != 0 {
		result.TopN = loaded.TopN
	} else {
		result.TopN = defaults.TopN
	}

	if loaded.MinFreq != 0 {
		result.MinFreq = loaded.MinFreq
	} else {
		result.MinFreq = defaults.MinFreq
	}

	return result
}
