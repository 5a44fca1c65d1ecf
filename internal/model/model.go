// Package model describes the pretrained encoder families vectra can drive.
//
// Each supported family is captured by a Descriptor: the identifiers of its
// special tokens, the tensor names its ONNX export exposes, and the artifact
// files expected on disk. Descriptors are resolved through a Registry that is
// built at construction time and injected where needed; there is no mutable
// module-level table.
package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrConfiguration is returned for invalid model selection or setup values,
// such as an unknown model key or a non-positive sequence length.
var ErrConfiguration = errors.New("invalid configuration")

// HiddenDim is the hidden dimension shared by both supported base models.
const HiddenDim = 768

// EncoderLayers is the number of transformer layers in both base models.
const EncoderLayers = 12

// Descriptor describes one encoder family: where its artifacts live, which
// token ids mark sequence boundaries and padding, and how its ONNX export
// names the tensors we need.
type Descriptor struct {
	// Key is the registry lookup key, e.g. "flaubert".
	Key string
	// Name is the upstream model identifier, e.g. "flaubert-base-uncased".
	Name string

	// PadID is the id used to right-pad sequences to max length.
	PadID int64
	// BOSID marks the beginning of every encoded sequence.
	BOSID int64
	// EOSID marks the end of every encoded sequence. A sequence whose final
	// position holds this id is maximally full (no padding tail).
	EOSID int64

	// HiddenDim is the width of each hidden-state vector.
	HiddenDim int
	// EncoderLayers is the number of transformer layers (hidden-state layer
	// indices run 1..EncoderLayers; 0 is the embedding layer).
	EncoderLayers int

	// ModelFile and TokenizerFile are the artifact filenames inside the
	// model's directory.
	ModelFile     string
	TokenizerFile string

	// InputIDsName and AttentionMaskName are the ONNX input tensor names.
	InputIDsName      string
	AttentionMaskName string
	// HiddenStateFormat is a fmt pattern producing the ONNX output name for
	// a given layer index, e.g. "hidden_states.%d".
	HiddenStateFormat string
}

// HiddenStateOutput returns the ONNX output tensor name holding the hidden
// states of the given layer.
func (d Descriptor) HiddenStateOutput(layer int) string {
	return fmt.Sprintf(d.HiddenStateFormat, layer)
}

// Dir returns the directory holding this model's artifacts under modelsDir.
func (d Descriptor) Dir(modelsDir string) string {
	return filepath.Join(modelsDir, d.Key)
}

// ModelPath returns the full path of the ONNX export under modelsDir.
func (d Descriptor) ModelPath(modelsDir string) string {
	return filepath.Join(d.Dir(modelsDir), d.ModelFile)
}

// TokenizerPath returns the full path of the tokenizer file under modelsDir.
func (d Descriptor) TokenizerPath(modelsDir string) string {
	return filepath.Join(d.Dir(modelsDir), d.TokenizerFile)
}

// Registry resolves model keys to descriptors. Lookup is case-insensitive.
type Registry struct {
	byKey map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Descriptor)}
}

// DefaultRegistry returns a registry with the two families supported out of
// the box: FlauBERT and CamemBERT, both 768-wide 12-layer French encoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Descriptor{
		Key:               "flaubert",
		Name:              "flaubert-base-uncased",
		PadID:             2,
		BOSID:             0,
		EOSID:             1,
		HiddenDim:         HiddenDim,
		EncoderLayers:     EncoderLayers,
		ModelFile:         "model.onnx",
		TokenizerFile:     "tokenizer.json",
		InputIDsName:      "input_ids",
		AttentionMaskName: "attention_mask",
		HiddenStateFormat: "hidden_states.%d",
	})
	r.Register(Descriptor{
		Key:               "camembert",
		Name:              "camembert-base",
		PadID:             1,
		BOSID:             5,
		EOSID:             6,
		HiddenDim:         HiddenDim,
		EncoderLayers:     EncoderLayers,
		ModelFile:         "model.onnx",
		TokenizerFile:     "tokenizer.json",
		InputIDsName:      "input_ids",
		AttentionMaskName: "attention_mask",
		HiddenStateFormat: "hidden_states.%d",
	})
	return r
}

// Register adds or replaces a descriptor. The key is stored lowercased.
func (r *Registry) Register(d Descriptor) {
	r.byKey[strings.ToLower(d.Key)] = d
}

// Resolve returns the descriptor for the given key, matched
// case-insensitively. Unknown keys return ErrConfiguration.
func (r *Registry) Resolve(key string) (Descriptor, error) {
	d, ok := r.byKey[strings.ToLower(key)]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: unknown model %q (available: %s)",
			ErrConfiguration, key, strings.Join(r.Keys(), ", "))
	}
	return d, nil
}

// Keys returns the registered model keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
