// Package ingest turns event batches into feature vectors for downstream
// learners.
package ingest

import (
	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/graph"
)

// KeyFunc maps an event to the feature it counts towards.
type KeyFunc func(domain.Event) string

// ByNode counts events per emitting node.
func ByNode(e domain.Event) string { return e.NodeID }

// Vectorizer counts events per feature. Events whose key is not a feature
// are ignored.
type Vectorizer struct {
	features []string
	index    map[string]int
	key      KeyFunc
}

// NewVectorizer creates a vectorizer over the given features. A nil key
// counts by node id.
func NewVectorizer(features []string, key KeyFunc) *Vectorizer {
	if key == nil {
		key = ByNode
	}
	index := make(map[string]int, len(features))
	for i, f := range features {
		index[f] = i
	}
	return &Vectorizer{features: features, index: index, key: key}
}

// FeatureList returns the node ids of g in declaration order.
func FeatureList(g *graph.Graph) []string {
	nodes := g.Nodes()
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

// Features returns the feature names in vector order.
func (v *Vectorizer) Features() []string { return v.features }

// Vectorize counts the events of one or more batches.
func (v *Vectorizer) Vectorize(batches ...domain.Batch) []float64 {
	out := make([]float64, len(v.features))
	for _, b := range batches {
		for _, e := range b.Events {
			if i, ok := v.index[v.key(e)]; ok {
				out[i]++
			}
		}
	}
	return out
}
