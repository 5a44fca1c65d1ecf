package model

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	keys := r.Keys()
	want := []string{"camembert", "flaubert"}
	if len(keys) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %s, want %s", i, keys[i], want[i])
		}
	}
}

func TestResolveSpecialTokens(t *testing.T) {
	tests := []struct {
		key   string
		pad   int64
		bos   int64
		eos   int64
		model string
	}{
		{"flaubert", 2, 0, 1, "flaubert-base-uncased"},
		{"camembert", 1, 5, 6, "camembert-base"},
	}

	r := DefaultRegistry()
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			d, err := r.Resolve(tt.key)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.key, err)
			}
			if d.PadID != tt.pad || d.BOSID != tt.bos || d.EOSID != tt.eos {
				t.Errorf("special tokens = (%d, %d, %d), want (%d, %d, %d)",
					d.PadID, d.BOSID, d.EOSID, tt.pad, tt.bos, tt.eos)
			}
			if d.Name != tt.model {
				t.Errorf("Name = %s, want %s", d.Name, tt.model)
			}
			if d.HiddenDim != 768 {
				t.Errorf("HiddenDim = %d, want 768", d.HiddenDim)
			}
			if d.EncoderLayers != 12 {
				t.Errorf("EncoderLayers = %d, want 12", d.EncoderLayers)
			}
		})
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	r := DefaultRegistry()

	for _, key := range []string{"FlauBERT", "FLAUBERT", "flaubert"} {
		d, err := r.Resolve(key)
		if err != nil {
			t.Errorf("Resolve(%q): %v", key, err)
			continue
		}
		if d.Key != "flaubert" {
			t.Errorf("Resolve(%q).Key = %s, want flaubert", key, d.Key)
		}
	}
}

func TestResolveUnknown(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Resolve("bert-base")
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestRegisterCustomModel(t *testing.T) {
	r := NewRegistry()
	r.Register(Descriptor{Key: "MiniLM", PadID: 0, BOSID: 101, EOSID: 102})

	d, err := r.Resolve("minilm")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d.BOSID != 101 {
		t.Errorf("BOSID = %d, want 101", d.BOSID)
	}
}

func TestArtifactPaths(t *testing.T) {
	r := DefaultRegistry()
	d, err := r.Resolve("flaubert")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	base := filepath.Join("home", "models")
	if got, want := d.ModelPath(base), filepath.Join(base, "flaubert", "model.onnx"); got != want {
		t.Errorf("ModelPath = %s, want %s", got, want)
	}
	if got, want := d.TokenizerPath(base), filepath.Join(base, "flaubert", "tokenizer.json"); got != want {
		t.Errorf("TokenizerPath = %s, want %s", got, want)
	}
}

func TestHiddenStateOutput(t *testing.T) {
	r := DefaultRegistry()
	d, err := r.Resolve("camembert")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if got := d.HiddenStateOutput(11); got != "hidden_states.11" {
		t.Errorf("HiddenStateOutput(11) = %s, want hidden_states.11", got)
	}
}
