package vectorizer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vectra-ml/vectra/internal/encoder"
	"github.com/vectra-ml/vectra/internal/model"
	"github.com/vectra-ml/vectra/internal/tokenizer"
)

// fakeSubword assigns sequential ids to whitespace-separated words.
type fakeSubword struct{}

func (fakeSubword) Encode(text string) ([]string, []int64, error) {
	var tokens []string
	var ids []int64
	for i, w := range strings.Fields(text) {
		tokens = append(tokens, w)
		ids = append(ids, int64(10+i))
	}
	return tokens, ids, nil
}

// fakeSession emits the layer index in every hidden-state component and
// counts forward passes.
type fakeSession struct {
	desc   model.Descriptor
	calls  *int
	closed bool
}

func (f *fakeSession) HiddenStates(ids, mask []int64, batchSize, seqLen int, layers []int) (map[int][]float32, error) {
	*f.calls++
	out := make(map[int][]float32, len(layers))
	for _, layer := range layers {
		buf := make([]float32, batchSize*seqLen*f.desc.HiddenDim)
		for i := range buf {
			buf[i] = float32(layer)
		}
		out[layer] = buf
	}
	return out, nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

func testDescriptor() model.Descriptor {
	return model.Descriptor{
		Key:           "flaubert",
		Name:          "FlauBERT base",
		PadID:         2,
		BOSID:         0,
		EOSID:         1,
		HiddenDim:     4,
		EncoderLayers: 12,
	}
}

// newTestVectorizer wires a vectorizer over fakes, returning the inference
// call counter.
func newTestVectorizer() (*Vectorizer, *int) {
	desc := testDescriptor()
	calls := new(int)
	adapter := tokenizer.NewAdapter(fakeSubword{}, desc)
	open := func(layers []int) (encoder.Session, error) {
		return &fakeSession{desc: desc, calls: calls}, nil
	}
	return New(adapter, open, desc), calls
}

func frenchDocs() []string {
	return []string{
		"le chat dort sur le canapé",
		"la voiture roule vite",
		"le chien aboie dans le jardin",
	}
}

func smallOptions() Options {
	opts := DefaultOptions()
	opts.MaxLen = 16
	opts.BatchSize = 2
	return opts
}

func TestVectorizeReturnsOneVectorPerDocument(t *testing.T) {
	v, _ := newTestVectorizer()

	vectors, err := v.Vectorize(context.Background(), frenchDocs(), smallOptions())
	if err != nil {
		t.Fatalf("Vectorize: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != testDescriptor().HiddenDim {
			t.Errorf("vector %d width = %d, want %d", i, len(vec), testDescriptor().HiddenDim)
		}
		for j, x := range vec {
			if x != 11 {
				t.Errorf("vectors[%d][%d] = %f, want 11", i, j, x)
			}
		}
	}
}

func TestVectorizeValidationPrecedesInference(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"bad sentence pooling", func(o *Options) { o.SentencePooling = "median" }},
		{"bad word pooling", func(o *Options) { o.WordPooling = "sum" }},
		{"zero batch size", func(o *Options) { o.BatchSize = 0 }},
		{"negative batch size", func(o *Options) { o.BatchSize = -4 }},
		{"layer zero", func(o *Options) { o.Layers = Layer(0) }},
		{"layer beyond encoder", func(o *Options) { o.Layers = Layer(13) }},
		{"empty layer list", func(o *Options) { o.Layers = LayerList() }},
		{"layer list out of range", func(o *Options) { o.Layers = LayerList(11, 14) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, calls := newTestVectorizer()
			opts := smallOptions()
			tt.mutate(&opts)

			_, err := v.Vectorize(context.Background(), frenchDocs(), opts)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if *calls != 0 {
				t.Errorf("expected zero forward passes before validation failure, got %d", *calls)
			}
		})
	}
}

func TestVectorizeScalarAndSingletonListAgree(t *testing.T) {
	v, _ := newTestVectorizer()

	scalar := smallOptions()
	scalar.Layers = Layer(11)

	list := smallOptions()
	list.Layers = LayerList(11)

	a, err := v.Vectorize(context.Background(), frenchDocs(), scalar)
	if err != nil {
		t.Fatalf("Vectorize scalar: %v", err)
	}
	b, err := v.Vectorize(context.Background(), frenchDocs(), list)
	if err != nil {
		t.Fatalf("Vectorize list: %v", err)
	}

	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("scalar and singleton list disagree at [%d][%d]: %f vs %f",
					i, j, a[i][j], b[i][j])
			}
		}
	}
}

func TestVectorizeConcatWidth(t *testing.T) {
	v, _ := newTestVectorizer()

	opts := smallOptions()
	opts.Layers = LayerList(10, 11, 12)
	opts.WordPooling = "concat"

	vectors, err := v.Vectorize(context.Background(), frenchDocs(), opts)
	if err != nil {
		t.Fatalf("Vectorize: %v", err)
	}
	want := 3 * testDescriptor().HiddenDim
	if len(vectors[0]) != want {
		t.Errorf("expected width %d, got %d", want, len(vectors[0]))
	}
	if got := v.Width(opts); got != want {
		t.Errorf("Width = %d, want %d", got, want)
	}
}

func TestVectorizeIdempotent(t *testing.T) {
	v, _ := newTestVectorizer()
	opts := smallOptions()

	a, err := v.Vectorize(context.Background(), frenchDocs(), opts)
	if err != nil {
		t.Fatalf("first Vectorize: %v", err)
	}
	b, err := v.Vectorize(context.Background(), frenchDocs(), opts)
	if err != nil {
		t.Fatalf("second Vectorize: %v", err)
	}
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("runs disagree at [%d][%d]", i, j)
			}
		}
	}
}

func TestVectorizeSaveRoundTrip(t *testing.T) {
	v, _ := newTestVectorizer()

	opts := smallOptions()
	opts.SavePath = t.TempDir() + string(filepath.Separator)

	vectors, err := v.Vectorize(context.Background(), frenchDocs(), opts)
	if err != nil {
		t.Fatalf("Vectorize: %v", err)
	}

	loaded, err := LoadArtifact(opts.SavePath)
	if err != nil {
		t.Fatalf("LoadArtifact: %v", err)
	}
	if len(loaded) != len(vectors) {
		t.Fatalf("expected %d vectors, got %d", len(vectors), len(loaded))
	}
	for i := range vectors {
		for j := range vectors[i] {
			if loaded[i][j] != vectors[i][j] {
				t.Fatalf("loaded vector differs at [%d][%d]", i, j)
			}
		}
	}
}

func TestVectorizeSaveFailureStillReturnsVectors(t *testing.T) {
	v, _ := newTestVectorizer()

	opts := smallOptions()
	opts.SavePath = filepath.Join(t.TempDir(), "missing", "dir") + string(filepath.Separator)

	vectors, err := v.Vectorize(context.Background(), frenchDocs(), opts)
	if err == nil {
		t.Fatal("expected save error")
	}
	if len(vectors) != 3 {
		t.Fatalf("expected vectors alongside save error, got %d", len(vectors))
	}
}
