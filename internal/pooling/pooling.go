// Package pooling collapses transformer hidden states into fixed-size text
// vectors in two stages: word pooling merges the selected encoder layers into
// one vector per token position, then sentence pooling merges the token
// positions of the true-content span into a single vector.
//
// All reductions are written as explicit folds with a defined identity
// element: the zero vector for sum/average accumulation and a negative
// infinity sentinel for max accumulation.
package pooling

import (
	"fmt"
	"math"
)

// WordMethod selects how multiple encoder layers merge into one vector per
// token position.
type WordMethod string

// SentenceMethod selects how the token positions of a span merge into one
// vector per document.
type SentenceMethod string

const (
	// WordAverage takes the elementwise mean across the selected layers.
	WordAverage WordMethod = "average"
	// WordMax takes the elementwise maximum across the selected layers.
	WordMax WordMethod = "max"
	// WordConcat concatenates the per-layer vectors in the stated layer
	// order, widening the output to hiddenDim times the layer count.
	WordConcat WordMethod = "concat"

	// SentenceAverage takes the elementwise mean across the span positions.
	SentenceAverage SentenceMethod = "average"
	// SentenceMax takes the elementwise maximum across the span positions.
	SentenceMax SentenceMethod = "max"
)

// ParseWordMethod validates and normalizes a word pooling method name.
func ParseWordMethod(s string) (WordMethod, error) {
	switch WordMethod(s) {
	case WordAverage, WordMax, WordConcat:
		return WordMethod(s), nil
	}
	return "", fmt.Errorf("word_pooling_method must be %q, %q or %q, got %q",
		WordAverage, WordMax, WordConcat, s)
}

// ParseSentenceMethod validates and normalizes a sentence pooling method name.
func ParseSentenceMethod(s string) (SentenceMethod, error) {
	switch SentenceMethod(s) {
	case SentenceAverage, SentenceMax:
		return SentenceMethod(s), nil
	}
	return "", fmt.Errorf("sentence_pooling_method must be %q or %q, got %q",
		SentenceAverage, SentenceMax, s)
}

// Matrix is a row-major view of word vectors: Rows token positions, each a
// vector of Cols values. The backing slice may be shared with a larger
// hidden-state buffer; Matrix never mutates it.
type Matrix struct {
	Data []float32
	Rows int
	Cols int
}

// Row returns the vector at token position i.
func (m Matrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// PoolWords merges the selected layers into one matrix of word vectors.
// layers holds one Matrix per selected encoder layer, all with identical
// shape, ordered as the caller stated them. The result is freshly allocated.
func PoolWords(layers []Matrix, method WordMethod) (Matrix, error) {
	if len(layers) == 0 {
		return Matrix{}, fmt.Errorf("word pooling requires at least one layer")
	}
	rows, cols := layers[0].Rows, layers[0].Cols
	for _, l := range layers[1:] {
		if l.Rows != rows || l.Cols != cols {
			return Matrix{}, fmt.Errorf("layer shape mismatch: got %dx%d, want %dx%d",
				l.Rows, l.Cols, rows, cols)
		}
	}

	switch method {
	case WordConcat:
		out := Matrix{Data: make([]float32, rows*cols*len(layers)), Rows: rows, Cols: cols * len(layers)}
		for r := 0; r < rows; r++ {
			dst := out.Row(r)
			for li, l := range layers {
				copy(dst[li*cols:(li+1)*cols], l.Row(r))
			}
		}
		return out, nil

	case WordAverage:
		// Fold with the zero vector as identity, then scale.
		out := Matrix{Data: make([]float32, rows*cols), Rows: rows, Cols: cols}
		for _, l := range layers {
			for i, v := range l.Data {
				out.Data[i] += v
			}
		}
		inv := float32(1) / float32(len(layers))
		for i := range out.Data {
			out.Data[i] *= inv
		}
		return out, nil

	case WordMax:
		// Fold with -Inf as identity.
		out := Matrix{Data: make([]float32, rows*cols), Rows: rows, Cols: cols}
		negInf := float32(math.Inf(-1))
		for i := range out.Data {
			out.Data[i] = negInf
		}
		for _, l := range layers {
			for i, v := range l.Data {
				if v > out.Data[i] {
					out.Data[i] = v
				}
			}
		}
		return out, nil
	}
	return Matrix{}, fmt.Errorf("unknown word pooling method %q", method)
}

// PoolSentence merges the token positions in [start, end) into one vector.
// Positions outside the span (padding and both boundary markers) never
// contribute, whatever the method. An empty span yields the zero vector; a
// single-position span yields that position's vector.
func PoolSentence(words Matrix, start, end int, method SentenceMethod) []float32 {
	out := make([]float32, words.Cols)
	if end > words.Rows {
		end = words.Rows
	}
	if start >= end {
		return out
	}

	switch method {
	case SentenceMax:
		negInf := float32(math.Inf(-1))
		for i := range out {
			out[i] = negInf
		}
		for r := start; r < end; r++ {
			for i, v := range words.Row(r) {
				if v > out[i] {
					out[i] = v
				}
			}
		}
	default: // SentenceAverage
		for r := start; r < end; r++ {
			for i, v := range words.Row(r) {
				out[i] += v
			}
		}
		inv := float32(1) / float32(end-start)
		for i := range out {
			out[i] *= inv
		}
	}
	return out
}
