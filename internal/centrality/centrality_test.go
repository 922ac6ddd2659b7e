// Package centrality scores how much each character bridges the rest of the
// network and summarizes how closed each community is.
package centrality

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/charnet/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphOf(nodes map[string]int, order []string, edges ...models.Edge) *models.Graph {
	g := &models.Graph{Nodes: []models.Node{}, Edges: edges}
	for _, id := range order {
		g.Nodes = append(g.Nodes, models.Node{ID: id, Frequency: nodes[id]})
	}
	return g
}

func uniform(order ...string) map[string]int {
	freq := make(map[string]int, len(order))
	for _, id := range order {
		freq[id] = 1
	}
	return freq
}

func edge(a, b string, w int) models.Edge {
	return models.Edge{Source: a, Target: b, Weight: w}
}

func TestBetweenness(t *testing.T) {
	ctx := context.Background()

	t.Run("empty graph", func(t *testing.T) {
		scores, err := Betweenness(ctx, graphOf(nil, nil), false)

		require.NoError(t, err)
		assert.Empty(t, scores)
	})

	t.Run("zero edges scores zero everywhere", func(t *testing.T) {
		order := []string{"A", "B", "C"}
		scores, err := Betweenness(ctx, graphOf(uniform(order...), order), false)

		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"A": 0, "B": 0, "C": 0}, scores)
	})

	t.Run("two nodes score zero", func(t *testing.T) {
		order := []string{"Alice", "Bob"}
		scores, err := Betweenness(ctx, graphOf(uniform(order...), order, edge("Alice", "Bob", 1)), false)

		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"Alice": 0, "Bob": 0}, scores)
	})

	t.Run("path center carries every path", func(t *testing.T) {
		order := []string{"A", "B", "C"}
		g := graphOf(uniform(order...), order, edge("A", "B", 1), edge("B", "C", 1))

		scores, err := Betweenness(ctx, g, false)

		require.NoError(t, err)
		assert.InDelta(t, 1.0, scores["B"], 1e-12)
		assert.Zero(t, scores["A"])
		assert.Zero(t, scores["C"])
	})

	t.Run("longer path", func(t *testing.T) {
		order := []string{"A", "B", "C", "D"}
		g := graphOf(uniform(order...), order, edge("A", "B", 1), edge("B", "C", 1), edge("C", "D", 1))

		scores, err := Betweenness(ctx, g, false)

		require.NoError(t, err)
		assert.InDelta(t, 2.0/3.0, scores["B"], 1e-12)
		assert.InDelta(t, 2.0/3.0, scores["C"], 1e-12)
	})

	t.Run("star center", func(t *testing.T) {
		order := []string{"Hub", "L1", "L2", "L3", "L4"}
		g := graphOf(uniform(order...), order,
			edge("Hub", "L1", 1), edge("Hub", "L2", 1), edge("Hub", "L3", 1), edge("Hub", "L4", 1))

		scores, err := Betweenness(ctx, g, false)

		require.NoError(t, err)
		assert.InDelta(t, 1.0, scores["Hub"], 1e-12)
		for _, leaf := range order[1:] {
			assert.Zero(t, scores[leaf])
		}
	})

	t.Run("components do not contribute to each other", func(t *testing.T) {
		order := []string{"A", "B", "C", "D", "E", "F"}
		g := graphOf(uniform(order...), order,
			edge("A", "B", 1), edge("B", "C", 1),
			edge("D", "E", 1), edge("E", "F", 1))

		scores, err := Betweenness(ctx, g, false)

		require.NoError(t, err)
		assert.InDelta(t, 0.1, scores["B"], 1e-12)
		assert.InDelta(t, 0.1, scores["E"], 1e-12)
		assert.Zero(t, scores["A"])
		assert.Zero(t, scores["F"])
	})

	t.Run("split shortest paths share credit", func(t *testing.T) {
		order := []string{"A", "B", "C", "D"}
		g := graphOf(uniform(order...), order,
			edge("A", "B", 10), edge("B", "C", 10), edge("C", "D", 1), edge("A", "D", 1))

		scores, err := Betweenness(ctx, g, false)

		require.NoError(t, err)
		for _, id := range order {
			assert.InDelta(t, 1.0/6.0, scores[id], 1e-12, id)
		}
	})

	t.Run("weighted prefers heavy ties", func(t *testing.T) {
		order := []string{"A", "B", "C", "D"}
		g := graphOf(uniform(order...), order,
			edge("A", "B", 10), edge("B", "C", 10), edge("C", "D", 1), edge("A", "D", 1))

		scores, err := Betweenness(ctx, g, true)

		require.NoError(t, err)
		assert.InDelta(t, 1.0/3.0, scores["B"], 1e-9)
		assert.InDelta(t, 1.0/6.0, scores["A"], 1e-9)
		assert.InDelta(t, 1.0/6.0, scores["C"], 1e-9)
		assert.InDelta(t, 0.0, scores["D"], 1e-9)
	})

	t.Run("scores stay within unit interval", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(9, 9))
		for i := range 20 {
			g := randomGraph(rng, 3+rng.IntN(25), rng.IntN(60))
			for _, weighted := range []bool{false, true} {
				scores, err := Betweenness(ctx, g, weighted)
				require.NoError(t, err)
				assert.Len(t, scores, len(g.Nodes))
				for id, score := range scores {
					assert.GreaterOrEqual(t, score, 0.0, "graph %d node %s", i, id)
					assert.LessOrEqual(t, score, 1.0+1e-9, "graph %d node %s", i, id)
				}
			}
		}
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		order := []string{"A", "B", "C"}
		g := graphOf(uniform(order...), order, edge("A", "B", 1), edge("B", "C", 1))
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		scores, err := Betweenness(cancelled, g, false)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, scores)
	})
}

func TestRank(t *testing.T) {
	t.Run("orders by score then frequency then name", func(t *testing.T) {
		freq := map[string]int{"Ana": 3, "Bia": 5, "Caio": 3, "Duda": 1}
		g := graphOf(freq, []string{"Bia", "Ana", "Caio", "Duda"})
		scores := map[string]float64{"Ana": 0, "Bia": 0, "Caio": 0, "Duda": 0.5}

		ranked := Rank(scores, g)

		require.Len(t, ranked, 4)
		names := []string{}
		for i, r := range ranked {
			names = append(names, r.Name)
			assert.Equal(t, i+1, r.Rank)
		}
		assert.Equal(t, []string{"Duda", "Bia", "Ana", "Caio"}, names)
		assert.Equal(t, 5, ranked[1].Frequency)
	})

	t.Run("empty graph gives empty ranking", func(t *testing.T) {
		ranked := Rank(map[string]float64{}, graphOf(nil, nil))

		assert.NotNil(t, ranked)
		assert.Empty(t, ranked)
	})
}

func TestBridges(t *testing.T) {
	ranked := []models.CentralityScore{
		{Name: "A", Betweenness: 0.8, Rank: 1},
		{Name: "B", Betweenness: 0.2, Rank: 2},
		{Name: "C", Betweenness: 0, Rank: 3},
	}

	tests := []struct {
		k    int
		want []string
	}{
		{k: 0, want: []string{}},
		{k: 1, want: []string{"A"}},
		{k: 10, want: []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("top %d", tt.k), func(t *testing.T) {
			got := []string{}
			for _, b := range Bridges(ranked, tt.k) {
				got = append(got, b.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommunityStats(t *testing.T) {
	t.Run("two cliques joined by a bridge", func(t *testing.T) {
		nodes := []string{"A0", "A1", "A2", "B0", "B1", "B2"}
		freq := map[string]int{"A0": 2, "A1": 7, "A2": 2, "B0": 1, "B1": 1, "B2": 1}
		g := graphOf(freq, nodes,
			edge("A0", "A1", 2), edge("A0", "A2", 1), edge("A1", "A2", 1),
			edge("B0", "B1", 1), edge("B0", "B2", 1),
			edge("A2", "B0", 3))
		p := &models.Partition{
			Communities: []models.Community{
				{ID: 0, Members: []string{"A0", "A1", "A2"}},
				{ID: 1, Members: []string{"B0", "B1", "B2"}},
			},
			Membership: map[string]int{"A0": 0, "A1": 0, "A2": 0, "B0": 1, "B1": 1, "B2": 1},
		}

		stats := CommunityStats(g, p)

		require.Len(t, stats, 2)
		assert.Equal(t, models.CommunityStats{
			Community:      0,
			Size:           3,
			InternalEdges:  3,
			ExternalEdges:  1,
			InternalWeight: 4,
			ExternalWeight: 3,
			TotalFrequency: 11,
			Density:        1,
			Members: []models.MemberFrequency{
				{Name: "A1", Frequency: 7},
				{Name: "A0", Frequency: 2},
				{Name: "A2", Frequency: 2},
			},
		}, stats[0])
		assert.Equal(t, 2, stats[1].InternalEdges)
		assert.Equal(t, 1, stats[1].ExternalEdges)
		assert.InDelta(t, 2.0/3.0, stats[1].Density, 1e-12)
	})

	t.Run("singleton community has zero density", func(t *testing.T) {
		g := graphOf(map[string]int{"Solo": 4}, []string{"Solo"})
		p := &models.Partition{
			Communities: []models.Community{{ID: 0, Members: []string{"Solo"}}},
			Membership:  map[string]int{"Solo": 0},
		}

		stats := CommunityStats(g, p)

		require.Len(t, stats, 1)
		assert.Equal(t, 1, stats[0].Size)
		assert.Zero(t, stats[0].Density)
		assert.Equal(t, 4, stats[0].TotalFrequency)
	})

	t.Run("empty partition", func(t *testing.T) {
		stats := CommunityStats(graphOf(nil, nil), &models.Partition{Membership: map[string]int{}})

		assert.Empty(t, stats)
	})
}

func randomGraph(rng *rand.Rand, n, m int) *models.Graph {
	order := make([]string, n)
	for i := range order {
		order[i] = fmt.Sprintf("N%03d", i)
	}

	seen := make(map[[2]int]bool)
	var edges []models.Edge
	for range m {
		a, b := rng.IntN(n), rng.IntN(n)
		if a == b {
			continue
		}
		if b < a {
			a, b = b, a
		}
		if seen[[2]int{a, b}] {
			continue
		}
		seen[[2]int{a, b}] = true
		edges = append(edges, edge(order[a], order[b], 1+rng.IntN(5)))
	}

	return graphOf(uniform(order...), order, edges...)
}
