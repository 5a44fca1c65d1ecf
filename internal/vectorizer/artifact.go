package vectorizer

import (
	"encoding/gob"
	"fmt"
	"os"
)

// artifactName is the fixed suffix appended to a save path prefix.
const artifactName = "text_vectors"

// SaveArtifact persists a vector collection under prefix+"text_vectors".
// The prefix is used verbatim: a trailing separator makes it a directory,
// anything else a filename prefix.
func SaveArtifact(prefix string, vectors [][]float32) error {
	path := prefix + artifactName
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(vectors); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	return nil
}

// LoadArtifact reads a vector collection previously written by SaveArtifact.
func LoadArtifact(prefix string) ([][]float32, error) {
	path := prefix + artifactName
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var vectors [][]float32
	if err := gob.NewDecoder(f).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return vectors, nil
}
