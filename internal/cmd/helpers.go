package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vectra-ml/vectra/internal/config"
	"github.com/vectra-ml/vectra/internal/encoder"
	"github.com/vectra-ml/vectra/internal/model"
	"github.com/vectra-ml/vectra/internal/store"
	"github.com/vectra-ml/vectra/internal/tokenizer"
	"github.com/vectra-ml/vectra/internal/vectorizer"
)

// loadConfig resolves configuration from --config or by walking up from the
// working directory.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	return config.Load(wd)
}

// openStore opens the vector database under the nearest .vectra directory,
// creating the directory when none exists yet.
func openStore() (*store.Store, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	dir, err := config.FindConfigDir(wd)
	if err != nil {
		dir, err = config.EnsureConfigDir(wd)
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dir)
}

// loadDocuments reads a document collection from path: either a single file
// with one document per non-empty line, or a directory of .txt files each
// holding one document.
func loadDocuments(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading documents: %w", err)
	}

	if !info.IsDir() {
		return readLines(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading document directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var docs []string
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(path, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		docs = append(docs, strings.TrimSpace(string(data)))
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no .txt files in %s", path)
	}
	return docs, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading documents: %w", err)
	}
	defer f.Close()

	var docs []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			docs = append(docs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents found in %s", path)
	}
	return docs, nil
}

// newVectorizer wires tokenizer, encoder session factory and descriptor for
// a model key, initializing the ONNX runtime first.
func newVectorizer(cfg *config.Config, modelKey string) (*vectorizer.Vectorizer, model.Descriptor, error) {
	registry := model.DefaultRegistry()
	if modelKey == "" {
		modelKey = cfg.Models.Default
	}
	desc, err := registry.Resolve(modelKey)
	if err != nil {
		return nil, model.Descriptor{}, err
	}

	libPath := encoder.LocateRuntime(cfg.Runtime.OnnxLibrary)
	if err := encoder.InitRuntime(libPath); err != nil {
		return nil, model.Descriptor{}, err
	}

	sub, err := tokenizer.LoadSubword(desc, cfg.Models.Dir)
	if err != nil {
		return nil, model.Descriptor{}, err
	}
	adapter := tokenizer.NewAdapter(sub, desc)

	open := func(layers []int) (encoder.Session, error) {
		return encoder.OpenONNX(desc, cfg.Models.Dir, layers)
	}
	return vectorizer.New(adapter, open, desc), desc, nil
}
