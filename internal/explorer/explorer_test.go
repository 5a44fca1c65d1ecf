package explorer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vectra-ml/vectra/internal/keywords"
)

// twoGroups returns six documents whose vectors form two well-separated
// groups: indexes 0-2 near the origin and 3-5 far from it.
func twoGroups() ([]string, [][]float32) {
	docs := []string{
		"le fromage est bon",
		"le fromage est fondu",
		"un fromage de montagne",
		"la voiture est rouge",
		"une voiture dans la rue",
		"la voiture est au garage",
	}
	vectors := [][]float32{
		{0.1, 0.0}, {0.0, 0.1}, {0.1, 0.1},
		{10.0, 10.1}, {10.1, 10.0}, {9.9, 10.0},
	}
	return docs, vectors
}

func TestNewLengthMismatch(t *testing.T) {
	docs, vectors := twoGroups()
	if _, err := New(docs[:3], vectors); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := New(nil, nil); err == nil {
		t.Error("expected error for empty collection")
	}
}

func TestClusterSeparatesGroups(t *testing.T) {
	docs, vectors := twoGroups()
	e, err := New(docs, vectors)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	labels, err := e.Cluster(2)
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	if len(labels) != 6 {
		t.Fatalf("expected 6 labels, got %d", len(labels))
	}

	// Cluster numbering is arbitrary; membership is not.
	if labels[0] != labels[1] || labels[1] != labels[2] {
		t.Errorf("first group split across clusters: %v", labels)
	}
	if labels[3] != labels[4] || labels[4] != labels[5] {
		t.Errorf("second group split across clusters: %v", labels)
	}
	if labels[0] == labels[3] {
		t.Errorf("groups merged into one cluster: %v", labels)
	}
}

func TestClusterInvalidK(t *testing.T) {
	docs, vectors := twoGroups()
	e, _ := New(docs, vectors)

	for _, k := range []int{0, 1, 7, -2} {
		if _, err := e.Cluster(k); err == nil {
			t.Errorf("expected error for k=%d", k)
		}
	}
}

func TestLabelsBeforeClustering(t *testing.T) {
	docs, vectors := twoGroups()
	e, _ := New(docs, vectors)

	if _, err := e.Labels(); !errors.Is(err, ErrNoLabels) {
		t.Errorf("expected ErrNoLabels, got %v", err)
	}
	if _, err := e.Keywords(keywords.NewRake(nil), 5); !errors.Is(err, ErrNoLabels) {
		t.Errorf("expected ErrNoLabels from Keywords, got %v", err)
	}
	if err := e.Explore(filepath.Join(t.TempDir(), "out.png")); !errors.Is(err, ErrNoLabels) {
		t.Errorf("expected ErrNoLabels from Explore, got %v", err)
	}
}

func TestSetLabels(t *testing.T) {
	docs, vectors := twoGroups()
	e, _ := New(docs, vectors)

	if err := e.SetLabels([]int{0, 0, 0, 1, 1, 1}); err != nil {
		t.Fatalf("SetLabels: %v", err)
	}
	got, err := e.Labels()
	if err != nil {
		t.Fatalf("Labels: %v", err)
	}
	want := []int{0, 0, 0, 1, 1, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("labels[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if err := e.SetLabels([]int{0, 1}); err == nil {
		t.Error("expected error for wrong label count")
	}
	if err := e.SetLabels([]int{0, 0, 0, 1, 1, -1}); err == nil {
		t.Error("expected error for negative label")
	}
}

func TestKeywordsPerCluster(t *testing.T) {
	docs, vectors := twoGroups()
	e, _ := New(docs, vectors)
	if err := e.SetLabels([]int{0, 0, 0, 1, 1, 1}); err != nil {
		t.Fatalf("SetLabels: %v", err)
	}

	stop, err := keywords.StopWords("fr")
	if err != nil {
		t.Fatalf("StopWords: %v", err)
	}
	ranker := keywords.NewRake(stop)
	ranker.MinFreq = 2

	byCluster, err := e.Keywords(ranker, 5)
	if err != nil {
		t.Fatalf("Keywords: %v", err)
	}
	if len(byCluster) != 2 {
		t.Fatalf("expected 2 clusters, got %v", byCluster)
	}

	if !contains(byCluster["Cluster 0"], "fromage") {
		t.Errorf("Cluster 0 = %v, want fromage", byCluster["Cluster 0"])
	}
	if !contains(byCluster["Cluster 1"], "voiture") {
		t.Errorf("Cluster 1 = %v, want voiture", byCluster["Cluster 1"])
	}
	if contains(byCluster["Cluster 0"], "voiture") {
		t.Errorf("Cluster 0 leaked terms from the other cluster: %v", byCluster["Cluster 0"])
	}
}

func TestKeywordsInvalidTopN(t *testing.T) {
	docs, vectors := twoGroups()
	e, _ := New(docs, vectors)
	if err := e.SetLabels([]int{0, 0, 0, 1, 1, 1}); err != nil {
		t.Fatalf("SetLabels: %v", err)
	}
	if _, err := e.Keywords(keywords.NewRake(nil), 0); err == nil {
		t.Error("expected error for topN 0")
	}
}

func TestExploreWritesImage(t *testing.T) {
	docs, vectors := twoGroups()
	e, _ := New(docs, vectors)
	if err := e.SetLabels([]int{0, 0, 0, 1, 1, 1}); err != nil {
		t.Fatalf("SetLabels: %v", err)
	}

	out := filepath.Join(t.TempDir(), "clusters.png")
	if err := e.Explore(out); err != nil {
		t.Fatalf("Explore: %v", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("output image missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output image is empty")
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
