// Package encoder runs batched forward passes through a pretrained
// transformer encoder and pools the resulting hidden states into one vector
// per document.
//
// Documents are processed in contiguous batches; a batch's hidden states are
// pooled and released before the next batch runs, so peak memory is bounded
// by one batch of the selected layers rather than the whole collection.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/vectra-ml/vectra/internal/model"
	"github.com/vectra-ml/vectra/internal/pooling"
	"github.com/vectra-ml/vectra/internal/tokenizer"
)

// ErrInference is returned when the underlying encoder fails. Inference
// failures abort the whole run; there is no per-batch retry.
var ErrInference = errors.New("encoder inference failed")

// Session is one loaded encoder able to run forward passes. HiddenStates
// runs the model over a [batchSize, seqLen] id/mask pair and returns, for
// each requested layer, a flat [batchSize*seqLen*hiddenDim] buffer. The
// returned buffers are owned by the caller and valid until the next call.
type Session interface {
	HiddenStates(ids, mask []int64, batchSize, seqLen int, layers []int) (map[int][]float32, error)
	Close() error
}

// Options control one encoding run. Validation happens in the vectorizer
// facade before a Runner ever sees them.
type Options struct {
	// BatchSize is the number of documents per forward pass.
	BatchSize int
	// Layers are the encoder layers whose hidden states feed pooling, in
	// the order the caller stated them.
	Layers []int
	// SingleLayer marks a scalar layer selection: word pooling is skipped
	// and the single layer's vectors are used directly.
	SingleLayer bool
	// WordPooling merges the layers when SingleLayer is false.
	WordPooling pooling.WordMethod
	// SentencePooling merges the true-content span of word vectors.
	SentencePooling pooling.SentenceMethod
	// Progress, when set, is invoked after each completed batch with the
	// cumulative percentage of documents processed (monotone, ends at 100).
	Progress func(pct int)
}

// Runner drives a Session over a tokenized document collection.
type Runner struct {
	sess Session
	desc model.Descriptor
}

// NewRunner binds a session to its model descriptor.
func NewRunner(sess Session, desc model.Descriptor) *Runner {
	return &Runner{sess: sess, desc: desc}
}

// Run encodes every document of the batch and returns one pooled vector per
// document, in input order. The context is checked between batches; a
// forward pass already in flight runs to completion.
func (r *Runner) Run(ctx context.Context, b *tokenizer.Batch, opts Options) ([][]float32, error) {
	n := len(b.IDs)
	vectors := make([][]float32, 0, n)

	for start := 0; start < n; start += opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + opts.BatchSize
		if end > n {
			end = n
		}
		batch := end - start

		ids := flatten(b.IDs[start:end], b.MaxLen)
		mask := flatten(b.Masks[start:end], b.MaxLen)

		states, err := r.sess.HiddenStates(ids, mask, batch, b.MaxLen, opts.Layers)
		if err != nil {
			return nil, fmt.Errorf("%w: batch %d-%d: %v", ErrInference, start, end, err)
		}

		for i := 0; i < batch; i++ {
			words, err := r.wordVectors(states, batch, b.MaxLen, i, opts)
			if err != nil {
				return nil, err
			}
			spanStart, spanEnd := trueSpan(b.IDs[start+i], r.desc.PadID, r.desc.EOSID)
			vectors = append(vectors, pooling.PoolSentence(words, spanStart, spanEnd, opts.SentencePooling))
		}
		// states goes out of scope here; the next batch reuses nothing.

		if opts.Progress != nil {
			opts.Progress(int(math.Round(100 * float64(end) / float64(n))))
		}
	}
	return vectors, nil
}

// wordVectors assembles the per-position word vectors for document i of the
// current batch: either the single selected layer's rows, or the word-pooled
// merge of all selected layers.
func (r *Runner) wordVectors(states map[int][]float32, batch, seqLen, i int, opts Options) (pooling.Matrix, error) {
	views := make([]pooling.Matrix, len(opts.Layers))
	for li, layer := range opts.Layers {
		buf, ok := states[layer]
		if !ok {
			return pooling.Matrix{}, fmt.Errorf("%w: layer %d missing from encoder output", ErrInference, layer)
		}
		docLen := seqLen * r.desc.HiddenDim
		views[li] = pooling.Matrix{
			Data: buf[i*docLen : (i+1)*docLen],
			Rows: seqLen,
			Cols: r.desc.HiddenDim,
		}
	}
	if opts.SingleLayer {
		return views[0], nil
	}
	return pooling.PoolWords(views, opts.WordPooling)
}

// trueSpan returns the token positions eligible for sentence pooling,
// excluding padding and both boundary markers.
//
// The true length is the index of the first pad id. When the final position
// already holds the end marker the sequence is maximally full and carries no
// pad at all, so searching for one would find nothing; that case uses the
// whole row minus its last position instead.
func trueSpan(ids []int64, padID, eosID int64) (start, end int) {
	seqLen := len(ids)
	eosPos := 0
	if ids[seqLen-1] != eosID {
		for i, id := range ids {
			if id == padID {
				eosPos = i
				break
			}
		}
	}
	if eosPos == 0 {
		return 1, seqLen - 1
	}
	return 1, eosPos - 1
}

// flatten concatenates fixed-length rows into one row-major buffer.
func flatten(rows [][]int64, rowLen int) []int64 {
	out := make([]int64, 0, len(rows)*rowLen)
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}
