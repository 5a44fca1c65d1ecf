// Package tokenizer adapts an external subword tokenizer to the fixed-length
// id sequences the encoder consumes.
//
// The adapter owns truncation, boundary markers and padding: raw subword ids
// are cut to fit the length budget, wrapped with the model's beginning and
// end markers, and right-padded with the model's pad id. The attention mask
// is derived elementwise as id != pad.
package tokenizer

import (
	"fmt"

	"github.com/vectra-ml/vectra/internal/model"
)

// Subword produces raw subword tokens and ids for a single document, without
// special tokens or padding. Implementations wrap an external tokenizer
// engine; tests substitute fakes.
type Subword interface {
	Encode(text string) (tokens []string, ids []int64, err error)
}

// Batch holds the tokenization output for an ordered set of documents.
// All three slices are indexed by document position; every id and mask row
// has length exactly MaxLen.
type Batch struct {
	// Tokens holds the subword token strings per document, for introspection.
	// Rows are truncated to the length budget but carry no padding entries.
	Tokens [][]string
	// IDs holds the fixed-length id rows: bos, subword ids, eos, pad tail.
	IDs [][]int64
	// Masks holds 1 for real and boundary tokens, 0 for padding.
	Masks [][]int64
	// MaxLen is the fixed row length.
	MaxLen int
}

// Adapter turns documents into fixed-length id sequences for one model
// family. It is stateless across calls and reusable sequentially.
type Adapter struct {
	sub  Subword
	desc model.Descriptor
}

// NewAdapter creates an adapter binding a subword engine to a model
// descriptor.
func NewAdapter(sub Subword, desc model.Descriptor) *Adapter {
	return &Adapter{sub: sub, desc: desc}
}

// Tokenize encodes every document to exactly maxLen ids: one beginning
// marker, at most maxLen-2 subword ids (excess truncated from the end), one
// end marker, then pad ids. Empty documents encode to the two markers plus
// padding. maxLen must be positive.
func (a *Adapter) Tokenize(docs []string, maxLen int) (*Batch, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("%w: max_len must be positive, got %d", model.ErrConfiguration, maxLen)
	}

	b := &Batch{
		Tokens: make([][]string, len(docs)),
		IDs:    make([][]int64, len(docs)),
		Masks:  make([][]int64, len(docs)),
		MaxLen: maxLen,
	}

	// Budget for subword ids between the two boundary markers.
	budget := maxLen - 2
	if budget < 0 {
		budget = 0
	}

	for i, doc := range docs {
		tokens, ids, err := a.sub.Encode(doc)
		if err != nil {
			return nil, fmt.Errorf("tokenize document %d: %w", i, err)
		}
		if len(ids) > budget {
			ids = ids[:budget]
			tokens = tokens[:budget]
		}

		row := make([]int64, 0, maxLen)
		row = append(row, a.desc.BOSID)
		row = append(row, ids...)
		row = append(row, a.desc.EOSID)
		for len(row) < maxLen {
			row = append(row, a.desc.PadID)
		}
		row = row[:maxLen]

		mask := make([]int64, maxLen)
		for j, id := range row {
			if id != a.desc.PadID {
				mask[j] = 1
			}
		}

		b.Tokens[i] = tokens
		b.IDs[i] = row
		b.Masks[i] = mask
	}
	return b, nil
}
