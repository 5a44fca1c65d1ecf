package pooling

import (
	"math"
	"testing"
)

func TestParseWordMethod(t *testing.T) {
	tests := []struct {
		input string
		want  WordMethod
		valid bool
	}{
		{"average", WordAverage, true},
		{"max", WordMax, true},
		{"concat", WordConcat, true},
		{"median", "", false},
		{"", "", false},
		{"AVERAGE", "", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWordMethod(tt.input)
			if tt.valid && err != nil {
				t.Fatalf("ParseWordMethod(%q) returned error: %v", tt.input, err)
			}
			if !tt.valid && err == nil {
				t.Fatalf("ParseWordMethod(%q) expected error, got %v", tt.input, got)
			}
			if tt.valid && got != tt.want {
				t.Errorf("ParseWordMethod(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSentenceMethod(t *testing.T) {
	tests := []struct {
		input string
		want  SentenceMethod
		valid bool
	}{
		{"average", SentenceAverage, true},
		{"max", SentenceMax, true},
		{"concat", "", false}, // word-only method
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSentenceMethod(tt.input)
			if tt.valid && err != nil {
				t.Fatalf("ParseSentenceMethod(%q) returned error: %v", tt.input, err)
			}
			if !tt.valid && err == nil {
				t.Fatalf("ParseSentenceMethod(%q) expected error, got %v", tt.input, got)
			}
			if tt.valid && got != tt.want {
				t.Errorf("ParseSentenceMethod(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// twoLayers builds two 2x2 layer matrices with known values.
func twoLayers() []Matrix {
	return []Matrix{
		{Data: []float32{1, 2, 3, 4}, Rows: 2, Cols: 2},
		{Data: []float32{5, 6, 7, 8}, Rows: 2, Cols: 2},
	}
}

func TestPoolWordsAverage(t *testing.T) {
	got, err := PoolWords(twoLayers(), WordAverage)
	if err != nil {
		t.Fatalf("PoolWords: %v", err)
	}
	want := []float32{3, 4, 5, 6}
	if got.Rows != 2 || got.Cols != 2 {
		t.Fatalf("expected 2x2 result, got %dx%d", got.Rows, got.Cols)
	}
	for i, w := range want {
		if got.Data[i] != w {
			t.Errorf("Data[%d] = %f, want %f", i, got.Data[i], w)
		}
	}
}

func TestPoolWordsMax(t *testing.T) {
	layers := []Matrix{
		{Data: []float32{-1, 2}, Rows: 1, Cols: 2},
		{Data: []float32{-3, 1}, Rows: 1, Cols: 2},
	}
	got, err := PoolWords(layers, WordMax)
	if err != nil {
		t.Fatalf("PoolWords: %v", err)
	}
	// Max must hold for all-negative components too.
	want := []float32{-1, 2}
	for i, w := range want {
		if got.Data[i] != w {
			t.Errorf("Data[%d] = %f, want %f", i, got.Data[i], w)
		}
	}
}

func TestPoolWordsConcat(t *testing.T) {
	got, err := PoolWords(twoLayers(), WordConcat)
	if err != nil {
		t.Fatalf("PoolWords: %v", err)
	}
	if got.Rows != 2 || got.Cols != 4 {
		t.Fatalf("expected 2x4 result, got %dx%d", got.Rows, got.Cols)
	}
	// Each row holds the first layer's values followed by the second's.
	want := []float32{1, 2, 5, 6, 3, 4, 7, 8}
	for i, w := range want {
		if got.Data[i] != w {
			t.Errorf("Data[%d] = %f, want %f", i, got.Data[i], w)
		}
	}
}

func TestPoolWordsSingleLayerIdentity(t *testing.T) {
	layer := Matrix{Data: []float32{1, 2, 3, 4}, Rows: 2, Cols: 2}

	for _, method := range []WordMethod{WordAverage, WordMax, WordConcat} {
		t.Run(string(method), func(t *testing.T) {
			got, err := PoolWords([]Matrix{layer}, method)
			if err != nil {
				t.Fatalf("PoolWords: %v", err)
			}
			if got.Rows != 2 || got.Cols != 2 {
				t.Fatalf("expected 2x2 result, got %dx%d", got.Rows, got.Cols)
			}
			for i, w := range layer.Data {
				if got.Data[i] != w {
					t.Errorf("Data[%d] = %f, want %f", i, got.Data[i], w)
				}
			}
		})
	}
}

func TestPoolWordsEmpty(t *testing.T) {
	if _, err := PoolWords(nil, WordAverage); err == nil {
		t.Error("expected error for empty layer list")
	}
}

func TestPoolSentenceAverage(t *testing.T) {
	// 4 positions x 2 dims; span covers positions 1 and 2.
	words := Matrix{Data: []float32{9, 9, 1, 2, 3, 4, 9, 9}, Rows: 4, Cols: 2}
	got := PoolSentence(words, 1, 3, SentenceAverage)
	want := []float32{2, 3}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("got[%d] = %f, want %f", i, got[i], w)
		}
	}
}

func TestPoolSentenceMax(t *testing.T) {
	words := Matrix{Data: []float32{9, 9, -1, -2, -3, -4, 9, 9}, Rows: 4, Cols: 2}
	got := PoolSentence(words, 1, 3, SentenceMax)
	want := []float32{-1, -2}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("got[%d] = %f, want %f", i, got[i], w)
		}
	}
}

func TestPoolSentenceEmptySpan(t *testing.T) {
	words := Matrix{Data: []float32{1, 2, 3, 4}, Rows: 2, Cols: 2}

	got := PoolSentence(words, 1, 1, SentenceAverage)
	if len(got) != 2 {
		t.Fatalf("expected width 2, got %d", len(got))
	}
	for i, v := range got {
		if v != 0 {
			t.Errorf("got[%d] = %f, want 0", i, v)
		}
	}
	for _, v := range got {
		if math.IsNaN(float64(v)) {
			t.Error("empty span produced NaN")
		}
	}
}

func TestPoolSentenceClampsEnd(t *testing.T) {
	words := Matrix{Data: []float32{1, 2, 3, 4}, Rows: 2, Cols: 2}
	got := PoolSentence(words, 0, 10, SentenceAverage)
	want := []float32{2, 3}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("got[%d] = %f, want %f", i, got[i], w)
		}
	}
}
