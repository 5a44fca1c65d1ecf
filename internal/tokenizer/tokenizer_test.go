package tokenizer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vectra-ml/vectra/internal/model"
)

// fakeSubword maps every whitespace-separated word to a fixed id.
type fakeSubword struct {
	ids map[string]int64
	err error
}

func (f *fakeSubword) Encode(text string) ([]string, []int64, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	var tokens []string
	var ids []int64
	for _, w := range strings.Fields(text) {
		tokens = append(tokens, w)
		id, ok := f.ids[w]
		if !ok {
			id = 99
		}
		ids = append(ids, id)
	}
	return tokens, ids, nil
}

func testDescriptor() model.Descriptor {
	return model.Descriptor{
		Key:   "flaubert",
		PadID: 2,
		BOSID: 0,
		EOSID: 1,
	}
}

func TestTokenizePadsToMaxLen(t *testing.T) {
	sub := &fakeSubword{ids: map[string]int64{"le": 10, "chat": 11}}
	a := NewAdapter(sub, testDescriptor())

	b, err := a.Tokenize([]string{"le chat"}, 8)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	wantIDs := []int64{0, 10, 11, 1, 2, 2, 2, 2}
	wantMask := []int64{1, 1, 1, 1, 0, 0, 0, 0}
	if len(b.IDs[0]) != 8 {
		t.Fatalf("expected row length 8, got %d", len(b.IDs[0]))
	}
	for j := range wantIDs {
		if b.IDs[0][j] != wantIDs[j] {
			t.Errorf("IDs[0][%d] = %d, want %d", j, b.IDs[0][j], wantIDs[j])
		}
		if b.Masks[0][j] != wantMask[j] {
			t.Errorf("Masks[0][%d] = %d, want %d", j, b.Masks[0][j], wantMask[j])
		}
	}
	if len(b.Tokens[0]) != 2 {
		t.Errorf("expected 2 tokens, got %v", b.Tokens[0])
	}
}

func TestTokenizeTruncatesLongDocument(t *testing.T) {
	sub := &fakeSubword{ids: map[string]int64{}}
	a := NewAdapter(sub, testDescriptor())

	words := make([]string, 20)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}

	b, err := a.Tokenize([]string{strings.Join(words, " ")}, 6)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	row := b.IDs[0]
	if len(row) != 6 {
		t.Fatalf("expected row length 6, got %d", len(row))
	}
	if row[0] != 0 {
		t.Errorf("row[0] = %d, want beginning marker 0", row[0])
	}
	if row[5] != 1 {
		t.Errorf("row[5] = %d, want end marker 1", row[5])
	}
	// A maximally full row has no padding, so the mask is all ones.
	for j, m := range b.Masks[0] {
		if m != 1 {
			t.Errorf("Masks[0][%d] = %d, want 1", j, m)
		}
	}
	if len(b.Tokens[0]) != 4 {
		t.Errorf("expected tokens truncated to 4, got %d", len(b.Tokens[0]))
	}
}

func TestTokenizeEmptyDocument(t *testing.T) {
	sub := &fakeSubword{ids: map[string]int64{}}
	a := NewAdapter(sub, testDescriptor())

	b, err := a.Tokenize([]string{""}, 4)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	wantIDs := []int64{0, 1, 2, 2}
	for j := range wantIDs {
		if b.IDs[0][j] != wantIDs[j] {
			t.Errorf("IDs[0][%d] = %d, want %d", j, b.IDs[0][j], wantIDs[j])
		}
	}
}

func TestTokenizeInvalidMaxLen(t *testing.T) {
	a := NewAdapter(&fakeSubword{}, testDescriptor())

	for _, maxLen := range []int{0, -1} {
		_, err := a.Tokenize([]string{"bonjour"}, maxLen)
		if !errors.Is(err, model.ErrConfiguration) {
			t.Errorf("Tokenize with max_len %d: expected ErrConfiguration, got %v", maxLen, err)
		}
	}
}

func TestTokenizeEngineError(t *testing.T) {
	wantErr := errors.New("engine broken")
	a := NewAdapter(&fakeSubword{err: wantErr}, testDescriptor())

	_, err := a.Tokenize([]string{"bonjour"}, 8)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped engine error, got %v", err)
	}
}

func TestTokenizePreservesOrder(t *testing.T) {
	sub := &fakeSubword{ids: map[string]int64{"un": 21, "deux": 22, "trois": 23}}
	a := NewAdapter(sub, testDescriptor())

	b, err := a.Tokenize([]string{"un", "deux", "trois"}, 4)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	want := []int64{21, 22, 23}
	for i, w := range want {
		if b.IDs[i][1] != w {
			t.Errorf("document %d first subword id = %d, want %d", i, b.IDs[i][1], w)
		}
	}
}
