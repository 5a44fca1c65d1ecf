package tokenizer

import (
	"fmt"
	"os"

	sugarme "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"

	"github.com/vectra-ml/vectra/internal/model"
)

// hfSubword wraps a HuggingFace-format tokenizer loaded from a model's
// tokenizer.json. Special tokens are not requested here; the Adapter adds
// boundary markers itself so the length budget stays under its control.
type hfSubword struct {
	tk *sugarme.Tokenizer
}

// LoadSubword loads the subword engine for a model family from its
// tokenizer.json artifact under modelsDir.
func LoadSubword(desc model.Descriptor, modelsDir string) (Subword, error) {
	path := desc.TokenizerPath(modelsDir)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: tokenizer file for %s not found at %s", model.ErrConfiguration, desc.Key, path)
	}
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: load tokenizer %s: %v", model.ErrConfiguration, path, err)
	}
	return &hfSubword{tk: tk}, nil
}

// Encode runs the subword engine over one document without special tokens.
func (h *hfSubword) Encode(text string) ([]string, []int64, error) {
	en, err := h.tk.EncodeSingle(text, false)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]int64, len(en.Ids))
	for i, id := range en.Ids {
		ids[i] = int64(id)
	}
	tokens := make([]string, len(en.Tokens))
	copy(tokens, en.Tokens)
	return tokens, ids, nil
}
