// Package community partitions a character graph by greedy modularity
// optimization (Louvain method).
package community

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/charnet/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphOf(nodes []string, edges ...models.Edge) *models.Graph {
	g := &models.Graph{Nodes: []models.Node{}, Edges: edges}
	for _, n := range nodes {
		g.Nodes = append(g.Nodes, models.Node{ID: n, Frequency: 1})
	}
	return g
}

func edge(a, b string, w int) models.Edge {
	return models.Edge{Source: a, Target: b, Weight: w}
}

func twoCliques() *models.Graph {
	nodes := []string{"A0", "A1", "A2", "A3", "B0", "B1", "B2", "B3"}
	var edges []models.Edge
	for _, prefix := range []string{"A", "B"} {
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				edges = append(edges, edge(fmt.Sprintf("%s%d", prefix, i), fmt.Sprintf("%s%d", prefix, j), 1))
			}
		}
	}
	edges = append(edges, edge("A3", "B0", 1))
	return graphOf(nodes, edges...)
}

func singletons(g *models.Graph) map[string]int {
	m := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		m[n.ID] = i
	}
	return m
}

func assertTotalDisjoint(t *testing.T, g *models.Graph, p *models.Partition) {
	t.Helper()
	seen := make(map[string]int)
	for _, c := range p.Communities {
		for _, m := range c.Members {
			seen[m]++
			assert.Equal(t, c.ID, p.Membership[m])
		}
	}
	assert.Len(t, seen, len(g.Nodes))
	for _, n := range g.Nodes {
		assert.Equal(t, 1, seen[n.ID], "node %s", n.ID)
	}
	assert.Len(t, p.Membership, len(g.Nodes))
}

func TestDetect(t *testing.T) {
	ctx := context.Background()
	d := NewDetector(10, 1.0)

	t.Run("empty graph gives empty partition", func(t *testing.T) {
		p, err := d.Detect(ctx, graphOf(nil))

		require.NoError(t, err)
		assert.Empty(t, p.Communities)
		assert.Empty(t, p.Membership)
		assert.Zero(t, p.Modularity)
	})

	t.Run("zero edge graph keeps singletons", func(t *testing.T) {
		g := graphOf([]string{"Alice", "Bob", "Carol"})

		p, err := d.Detect(ctx, g)

		require.NoError(t, err)
		assert.Len(t, p.Communities, 3)
		assertTotalDisjoint(t, g, p)
		assert.Zero(t, p.Modularity)
		assert.Equal(t, []string{"Alice"}, p.Communities[0].Members)
		assert.Equal(t, []string{"Carol"}, p.Communities[2].Members)
	})

	t.Run("alice and bob merge", func(t *testing.T) {
		g := graphOf([]string{"Alice", "Bob"}, edge("Alice", "Bob", 1))

		p, err := d.Detect(ctx, g)

		require.NoError(t, err)
		assertTotalDisjoint(t, g, p)
		baseline, _ := Modularity(g, singletons(g), 1.0)
		assert.GreaterOrEqual(t, p.Modularity, baseline)
		require.Len(t, p.Communities, 1)
		assert.Equal(t, []string{"Alice", "Bob"}, p.Communities[0].Members)
		assert.InDelta(t, 0.0, p.Modularity, 1e-12)
	})

	t.Run("two cliques split at the bridge", func(t *testing.T) {
		g := twoCliques()

		p, err := d.Detect(ctx, g)

		require.NoError(t, err)
		assertTotalDisjoint(t, g, p)
		require.Len(t, p.Communities, 2)
		assert.Equal(t, []string{"A0", "A1", "A2", "A3"}, p.Communities[0].Members)
		assert.Equal(t, []string{"B0", "B1", "B2", "B3"}, p.Communities[1].Members)
		assert.InDelta(t, 12.0/13.0-0.5, p.Modularity, 1e-9)
		assert.InDelta(t, p.Modularity, p.Communities[0].Modularity+p.Communities[1].Modularity, 1e-12)
		assert.Equal(t, 1, p.Levels)
	})

	t.Run("isolated nodes stay singletons", func(t *testing.T) {
		g := graphOf([]string{"Alice", "Bob", "Loner"}, edge("Alice", "Bob", 3))

		p, err := d.Detect(ctx, g)

		require.NoError(t, err)
		assertTotalDisjoint(t, g, p)
		require.Len(t, p.Communities, 2)
		assert.Equal(t, []string{"Loner"}, p.Communities[1].Members)
		assert.Zero(t, p.Communities[1].Modularity)
	})

	t.Run("disconnected components never share a community", func(t *testing.T) {
		g := graphOf(
			[]string{"A1", "A2", "B1", "B2"},
			edge("A1", "A2", 2),
			edge("B1", "B2", 2),
		)

		p, err := d.Detect(ctx, g)

		require.NoError(t, err)
		assertTotalDisjoint(t, g, p)
		assert.NotEqual(t, p.Membership["A1"], p.Membership["B1"])
		assert.Equal(t, p.Membership["A1"], p.Membership["A2"])
	})

	t.Run("communities ordered by size then lowest member", func(t *testing.T) {
		g := graphOf(
			[]string{"S1", "S2", "T1", "T2", "T3"},
			edge("S1", "S2", 1),
			edge("T1", "T2", 1),
			edge("T2", "T3", 1),
			edge("T1", "T3", 1),
		)

		p, err := d.Detect(ctx, g)

		require.NoError(t, err)
		require.Len(t, p.Communities, 2)
		assert.Equal(t, 0, p.Communities[0].ID)
		assert.Equal(t, []string{"T1", "T2", "T3"}, p.Communities[0].Members)
		assert.Equal(t, []string{"S1", "S2"}, p.Communities[1].Members)
	})

	t.Run("identical input gives identical partition", func(t *testing.T) {
		g := randomGraph(rand.New(rand.NewPCG(7, 11)), 40, 90)

		first, err := d.Detect(ctx, g)
		require.NoError(t, err)
		second, err := d.Detect(ctx, g)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("single pass cap still yields a valid partition", func(t *testing.T) {
		g := randomGraph(rand.New(rand.NewPCG(3, 5)), 30, 60)

		p, err := NewDetector(1, 1.0).Detect(ctx, g)

		require.NoError(t, err)
		assertTotalDisjoint(t, g, p)
		assert.LessOrEqual(t, p.Levels, 1)
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		p, err := d.Detect(cancelled, twoCliques())

		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, p)
	})
}

func TestDetectProperties(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(42, 1))

	for i := range 25 {
		n := 2 + rng.IntN(40)
		m := rng.IntN(n * 3)
		g := randomGraph(rng, n, m)

		t.Run(fmt.Sprintf("random graph %d", i), func(t *testing.T) {
			for _, resolution := range []float64{0.5, 1.0, 2.0} {
				p, err := NewDetector(10, resolution).Detect(ctx, g)
				require.NoError(t, err)

				assertTotalDisjoint(t, g, p)

				baseline, _ := Modularity(g, singletons(g), resolution)
				assert.GreaterOrEqual(t, p.Modularity, baseline-1e-9)
			}
		})
	}
}

func TestModularity(t *testing.T) {
	t.Run("no edges is zero", func(t *testing.T) {
		g := graphOf([]string{"A1", "B1"})

		q, parts := Modularity(g, map[string]int{"A1": 0, "B1": 1}, 1.0)

		assert.Zero(t, q)
		assert.Len(t, parts, 2)
	})

	t.Run("singletons on one edge", func(t *testing.T) {
		g := graphOf([]string{"A1", "B1"}, edge("A1", "B1", 1))

		q, _ := Modularity(g, map[string]int{"A1": 0, "B1": 1}, 1.0)

		assert.InDelta(t, -0.5, q, 1e-12)
	})

	t.Run("weights matter", func(t *testing.T) {
		g := graphOf([]string{"A1", "A2", "B1"}, edge("A1", "A2", 9), edge("A2", "B1", 1))

		q, _ := Modularity(g, map[string]int{"A1": 0, "A2": 0, "B1": 1}, 1.0)

		// internal 18/20 minus (19/20)^2 + (1/20)^2
		assert.InDelta(t, 0.9-0.9025-0.0025, q, 1e-12)
	})
}

func TestAggregate(t *testing.T) {
	net := fromGraph(twoCliques())
	comm := []int{1, 1, 1, 1, 5, 5, 5, 5}

	coarse, renumbered := net.aggregate(comm)

	assert.Equal(t, []int{0, 0, 0, 0, 1, 1, 1, 1}, renumbered)
	require.Equal(t, 2, coarse.size())
	assert.Equal(t, []float64{6, 6}, coarse.self)
	assert.Equal(t, []float64{13, 13}, coarse.degree)
	assert.Equal(t, []arc{{to: 1, weight: 1}}, coarse.adj[0])
	assert.Equal(t, []arc{{to: 0, weight: 1}}, coarse.adj[1])
	assert.Equal(t, net.total, coarse.total)
}

func randomGraph(rng *rand.Rand, n, m int) *models.Graph {
	nodes := make([]string, n)
	for i := range nodes {
		nodes[i] = fmt.Sprintf("N%03d", i)
	}

	seen := make(map[[2]int]int)
	var edges []models.Edge
	for range m {
		a, b := rng.IntN(n), rng.IntN(n)
		if a == b {
			continue
		}
		if b < a {
			a, b = b, a
		}
		key := [2]int{a, b}
		if idx, ok := seen[key]; ok {
			edges[idx].Weight++
			continue
		}
		seen[key] = len(edges)
		edges = append(edges, edge(nodes[a], nodes[b], 1+rng.IntN(3)))
	}

	return graphOf(nodes, edges...)
}
