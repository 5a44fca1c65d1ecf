// Package explorer groups vectorized documents into clusters and helps
// interpret them, through per-cluster keyword extraction and a 2D
// projection plot.
package explorer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/vectra-ml/vectra/internal/keywords"
)

// ErrNoLabels is returned by operations that need a prior Cluster call.
var ErrNoLabels = errors.New("documents have not been clustered yet")

// restarts is the number of independent k-means runs per Cluster call;
// the partition with the lowest within-cluster sum of squares wins.
const restarts = 4

// Explorer holds a document collection alongside its vectors and, after
// clustering, a label per document.
type Explorer struct {
	docs    []string
	vectors [][]float32
	labels  []int
	k       int
}

// New pairs documents with their vectors. Lengths must match.
func New(docs []string, vectors [][]float32) (*Explorer, error) {
	if len(docs) != len(vectors) {
		return nil, fmt.Errorf("got %d documents but %d vectors", len(docs), len(vectors))
	}
	if len(docs) == 0 {
		return nil, errors.New("nothing to explore: empty collection")
	}
	return &Explorer{docs: docs, vectors: vectors}, nil
}

// vecObservation carries the original document index through partitioning
// so labels can be recovered afterwards.
type vecObservation struct {
	idx    int
	coords clusters.Coordinates
}

func (o vecObservation) Coordinates() clusters.Coordinates { return o.coords }

func (o vecObservation) Distance(point clusters.Coordinates) float64 {
	var sum float64
	for i, c := range o.coords {
		d := c - point[i]
		sum += d * d
	}
	return sum
}

// Cluster partitions the collection into k groups and records a label per
// document. Repeated calls re-cluster from scratch.
func (e *Explorer) Cluster(k int) ([]int, error) {
	if k < 2 || k > len(e.docs) {
		return nil, fmt.Errorf("k must be between 2 and %d, got %d", len(e.docs), k)
	}

	obs := make(clusters.Observations, len(e.vectors))
	for i, v := range e.vectors {
		coords := make(clusters.Coordinates, len(v))
		for j, x := range v {
			coords[j] = float64(x)
		}
		obs[i] = vecObservation{idx: i, coords: coords}
	}

	var best []int
	bestWCSS := 0.0
	for run := 0; run < restarts; run++ {
		km := kmeans.New()
		partition, err := km.Partition(obs, k)
		if err != nil {
			return nil, fmt.Errorf("k-means partition: %w", err)
		}
		labels, wcss := collectLabels(partition, len(e.docs))
		if best == nil || wcss < bestWCSS {
			best, bestWCSS = labels, wcss
		}
	}

	e.labels = best
	e.k = k
	return append([]int(nil), best...), nil
}

func collectLabels(partition clusters.Clusters, n int) ([]int, float64) {
	labels := make([]int, n)
	var wcss float64
	for ci, c := range partition {
		for _, o := range c.Observations {
			v := o.(vecObservation)
			labels[v.idx] = ci
			wcss += v.Distance(c.Center)
		}
	}
	return labels, wcss
}

// SetLabels installs an externally computed labeling, one per document.
func (e *Explorer) SetLabels(labels []int) error {
	if len(labels) != len(e.docs) {
		return fmt.Errorf("got %d labels for %d documents", len(labels), len(e.docs))
	}
	k := 0
	for _, l := range labels {
		if l < 0 {
			return fmt.Errorf("negative label %d", l)
		}
		if l+1 > k {
			k = l + 1
		}
	}
	e.labels = append([]int(nil), labels...)
	e.k = k
	return nil
}

// Labels returns the current labeling, or ErrNoLabels before clustering.
func (e *Explorer) Labels() ([]int, error) {
	if e.labels == nil {
		return nil, ErrNoLabels
	}
	return append([]int(nil), e.labels...), nil
}

// Keywords extracts the topN highest-ranked terms for each cluster, keyed
// by cluster name ("Cluster 0", "Cluster 1", ...). Clusters with fewer
// qualifying terms than topN report what they have.
func (e *Explorer) Keywords(ranker keywords.Ranker, topN int) (map[string][]string, error) {
	if e.labels == nil {
		return nil, ErrNoLabels
	}
	if topN < 1 {
		return nil, fmt.Errorf("topN must be positive, got %d", topN)
	}

	texts := make([]strings.Builder, e.k)
	for i, doc := range e.docs {
		texts[e.labels[i]].WriteString(doc)
		texts[e.labels[i]].WriteString("\n")
	}

	out := make(map[string][]string, e.k)
	for ci := range texts {
		ranked := ranker.Rank(texts[ci].String())
		if len(ranked) > topN {
			ranked = ranked[:topN]
		}
		terms := make([]string, len(ranked))
		for i, t := range ranked {
			terms[i] = t.Term
		}
		out[fmt.Sprintf("Cluster %d", ci)] = terms
	}
	return out, nil
}
