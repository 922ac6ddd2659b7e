// Package cooccurrence counts how many sentences each pair of characters shares.
package cooccurrence

import (
	"context"
	"sort"

	"github.com/charnet/core/internal/models"
)

// Pair is an unordered pair of canonical names stored with A < B.
type Pair struct {
	A string
	B string
}

func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

type Builder struct {
	weights map[Pair]int
}

func NewBuilder() *Builder {
	return &Builder{weights: make(map[Pair]int)}
}

// Add records one sentence. Duplicate names are counted once; sets with
// fewer than two distinct names contribute nothing.
func (b *Builder) Add(names []string) {
	distinct := dedupe(names)
	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			b.weights[Pair{A: distinct[i], B: distinct[j]}]++
		}
	}
}

func (b *Builder) Weight(a, c string) int {
	return b.weights[NewPair(a, c)]
}

func (b *Builder) Len() int {
	return len(b.weights)
}

// Edges returns every pair with its weight, sorted by source then target.
func (b *Builder) Edges() []models.Edge {
	edges := make([]models.Edge, 0, len(b.weights))
	for pair, weight := range b.weights {
		edges = append(edges, models.Edge{Source: pair.A, Target: pair.B, Weight: weight})
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source == edges[j].Source {
			return edges[i].Target < edges[j].Target
		}
		return edges[i].Source < edges[j].Source
	})

	return edges
}

// Build runs the builder over every sentence group.
func Build(ctx context.Context, sentences []models.SentenceGroup) ([]models.Edge, error) {
	b := NewBuilder()
	for i, s := range sentences {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		b.Add(s.Characters)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return b.Edges(), nil
}

// dedupe returns the sorted distinct names, reusing the input when it is
// already strictly sorted.
func dedupe(names []string) []string {
	if len(names) < 2 {
		return names
	}

	sorted := true
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			sorted = false
			break
		}
	}
	if sorted {
		return names
	}

	out := append([]string(nil), names...)
	sort.Strings(out)

	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}

	return out[:n]
}
