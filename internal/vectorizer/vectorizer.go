// Package vectorizer composes tokenization, batched encoding and pooling
// into a single operation turning raw documents into fixed-size vectors.
//
// All option validation happens up front, before any tokenization or
// inference work: an invalid configuration never costs a forward pass.
package vectorizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/vectra-ml/vectra/internal/encoder"
	"github.com/vectra-ml/vectra/internal/model"
	"github.com/vectra-ml/vectra/internal/pooling"
	"github.com/vectra-ml/vectra/internal/tokenizer"
)

// ErrValidation is returned for invalid pooling methods, batch sizes or
// layer selections. Raised eagerly, before any inference call.
var ErrValidation = errors.New("invalid option")

// DefaultMaxLen is the default token budget per document.
const DefaultMaxLen = 256

// DefaultBatchSize is the default number of documents per forward pass.
const DefaultBatchSize = 50

// DefaultLayer is the encoder layer used when no selection is given.
const DefaultLayer = 11

// Layers selects which encoder layers feed the pooling engine. A single
// layer bypasses word pooling entirely; a list is collapsed by the word
// pooling method, even when it has only one element.
type Layers struct {
	single int
	list   []int
	isList bool
}

// Layer selects a single encoder layer.
func Layer(n int) Layers {
	return Layers{single: n}
}

// LayerList selects an ordered set of encoder layers for word pooling.
func LayerList(ns ...int) Layers {
	return Layers{list: ns, isList: true}
}

// IsList reports whether this selection goes through word pooling.
func (l Layers) IsList() bool {
	return l.isList
}

// Selected returns the layer indices in stated order.
func (l Layers) Selected() []int {
	if l.isList {
		return l.list
	}
	return []int{l.single}
}

func (l Layers) validate(max int) error {
	check := func(n int) error {
		if n < 1 || n > max {
			return fmt.Errorf("%w: layers must be integers between 1 and %d, got %d", ErrValidation, max, n)
		}
		return nil
	}
	if !l.isList {
		return check(l.single)
	}
	if len(l.list) == 0 {
		return fmt.Errorf("%w: layer list must not be empty", ErrValidation)
	}
	for _, n := range l.list {
		if err := check(n); err != nil {
			return err
		}
	}
	return nil
}

// Options configure one Vectorize call.
type Options struct {
	// MaxLen is the fixed token budget per document, boundary markers
	// included.
	MaxLen int
	// SentencePooling is "average" or "max".
	SentencePooling string
	// WordPooling is "average", "max" or "concat"; only consulted for a
	// layer list.
	WordPooling string
	// Layers selects the encoder layers to pool over.
	Layers Layers
	// BatchSize is the number of documents per forward pass.
	BatchSize int
	// SavePath, when non-empty, is the location prefix the computed vector
	// collection is persisted under (as "<SavePath>text_vectors").
	SavePath string
	// Progress, when set, receives the cumulative completion percentage
	// after each batch.
	Progress func(pct int)
}

// DefaultOptions mirrors the reference defaults: 256-token budget, average
// pooling at both stages over layer 11, batches of 50, no persistence.
func DefaultOptions() Options {
	return Options{
		MaxLen:          DefaultMaxLen,
		SentencePooling: string(pooling.SentenceAverage),
		WordPooling:     string(pooling.WordAverage),
		Layers:          Layer(DefaultLayer),
		BatchSize:       DefaultBatchSize,
	}
}

// SessionFactory opens an encoder session exposing the given layers.
// Injected so the facade stays independent of the concrete runtime.
type SessionFactory func(layers []int) (encoder.Session, error)

// Vectorizer turns document collections into vector collections for one
// model family. Safe for sequential reuse across calls.
type Vectorizer struct {
	adapter *tokenizer.Adapter
	open    SessionFactory
	desc    model.Descriptor
}

// New assembles a vectorizer from its collaborators.
func New(adapter *tokenizer.Adapter, open SessionFactory, desc model.Descriptor) *Vectorizer {
	return &Vectorizer{adapter: adapter, open: open, desc: desc}
}

// Vectorize tokenizes, encodes and pools every document, returning one
// vector per document in input order. Width is the model's hidden dimension,
// scaled by the layer count under concat word pooling.
//
// When opts.SavePath is set the collection is additionally persisted; a save
// failure is reported through the returned error but the computed vectors
// are still returned alongside it.
func (v *Vectorizer) Vectorize(ctx context.Context, docs []string, opts Options) ([][]float32, error) {
	runOpts, err := v.validate(opts)
	if err != nil {
		return nil, err
	}

	batch, err := v.adapter.Tokenize(docs, opts.MaxLen)
	if err != nil {
		return nil, err
	}

	sess, err := v.open(runOpts.Layers)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	vectors, err := encoder.NewRunner(sess, v.desc).Run(ctx, batch, runOpts)
	if err != nil {
		return nil, err
	}

	if opts.SavePath != "" {
		if err := SaveArtifact(opts.SavePath, vectors); err != nil {
			// Report-only: the in-memory result stays valid.
			return vectors, fmt.Errorf("save vectors: %w", err)
		}
	}
	return vectors, nil
}

// validate checks every option eagerly and resolves them into runner
// options. No tokenization or inference happens before this returns.
func (v *Vectorizer) validate(opts Options) (encoder.Options, error) {
	sentence, err := pooling.ParseSentenceMethod(opts.SentencePooling)
	if err != nil {
		return encoder.Options{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	word, err := pooling.ParseWordMethod(opts.WordPooling)
	if err != nil {
		return encoder.Options{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if opts.BatchSize <= 0 {
		return encoder.Options{}, fmt.Errorf("%w: batch_size must be a positive integer, got %d", ErrValidation, opts.BatchSize)
	}
	if err := opts.Layers.validate(v.desc.EncoderLayers); err != nil {
		return encoder.Options{}, err
	}
	return encoder.Options{
		BatchSize:       opts.BatchSize,
		Layers:          opts.Layers.Selected(),
		SingleLayer:     !opts.Layers.IsList(),
		WordPooling:     word,
		SentencePooling: sentence,
		Progress:        opts.Progress,
	}, nil
}

// Width returns the output vector width under the given options.
func (v *Vectorizer) Width(opts Options) int {
	if opts.Layers.IsList() && pooling.WordMethod(opts.WordPooling) == pooling.WordConcat {
		return v.desc.HiddenDim * len(opts.Layers.Selected())
	}
	return v.desc.HiddenDim
}
