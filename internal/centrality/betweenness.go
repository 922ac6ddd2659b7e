// Package centrality scores how much each character bridges the rest of the
// network and summarizes how closed each community is.
package centrality

import (
	"container/heap"
	"context"

	"github.com/charnet/core/internal/models"
)

type neighbor struct {
	to   int
	cost float64
}

// Betweenness computes normalized betweenness for every node of g with the
// Brandes accumulation. Paths only exist inside a connected component, so
// nodes in different components never contribute to each other. With
// weighted set, an edge of weight w has length 1/w and heavier ties are
// closer; otherwise every edge is one hop.
func Betweenness(ctx context.Context, g *models.Graph, weighted bool) (map[string]float64, error) {
	n := len(g.Nodes)
	scores := make(map[string]float64, n)
	for _, node := range g.Nodes {
		scores[node.ID] = 0
	}
	if n < 3 || len(g.Edges) == 0 {
		return scores, nil
	}

	adj := adjacency(g)
	cb := make([]float64, n)

	b := newBrandes(n)
	for s := 0; s < n; s++ {
		if s%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		b.reset()
		if weighted {
			b.dijkstra(adj, s)
		} else {
			b.bfs(adj, s)
		}
		b.accumulate(s, cb)
	}

	// Every unordered pair was counted from both ends.
	scale := 1 / float64((n-1)*(n-2))
	for i, node := range g.Nodes {
		scores[node.ID] = cb[i] * scale
	}

	return scores, nil
}

func adjacency(g *models.Graph) [][]neighbor {
	index := g.Index()
	adj := make([][]neighbor, len(g.Nodes))
	for _, e := range g.Edges {
		u, okU := index[e.Source]
		v, okV := index[e.Target]
		if !okU || !okV || u == v || e.Weight <= 0 {
			continue
		}
		cost := 1 / float64(e.Weight)
		adj[u] = append(adj[u], neighbor{to: v, cost: cost})
		adj[v] = append(adj[v], neighbor{to: u, cost: cost})
	}
	return adj
}

// brandes holds the single-source buffers reused across sources.
type brandes struct {
	order []int
	preds [][]int
	sigma []float64
	dist  []float64
	delta []float64
	queue []int
}

func newBrandes(n int) *brandes {
	return &brandes{
		order: make([]int, 0, n),
		preds: make([][]int, n),
		sigma: make([]float64, n),
		dist:  make([]float64, n),
		delta: make([]float64, n),
		queue: make([]int, 0, n),
	}
}

func (b *brandes) reset() {
	b.order = b.order[:0]
	b.queue = b.queue[:0]
	for i := range b.preds {
		b.preds[i] = b.preds[i][:0]
		b.sigma[i] = 0
		b.dist[i] = -1
		b.delta[i] = 0
	}
}

func (b *brandes) bfs(adj [][]neighbor, s int) {
	b.sigma[s] = 1
	b.dist[s] = 0
	b.queue = append(b.queue, s)

	for head := 0; head < len(b.queue); head++ {
		v := b.queue[head]
		b.order = append(b.order, v)
		for _, nb := range adj[v] {
			w := nb.to
			if b.dist[w] < 0 {
				b.dist[w] = b.dist[v] + 1
				b.queue = append(b.queue, w)
			}
			if b.dist[w] == b.dist[v]+1 {
				b.sigma[w] += b.sigma[v]
				b.preds[w] = append(b.preds[w], v)
			}
		}
	}
}

// Path lengths closer than this are equal; sums of 1/w are not exact.
const tolerance = 1e-9

func (b *brandes) dijkstra(adj [][]neighbor, s int) {
	b.sigma[s] = 1
	b.dist[s] = 0

	settled := make([]bool, len(adj))
	pq := &frontier{{node: s, dist: 0}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(entry)
		v := item.node
		if settled[v] || item.dist > b.dist[v]+tolerance {
			continue
		}
		settled[v] = true
		b.order = append(b.order, v)

		for _, nb := range adj[v] {
			w := nb.to
			if settled[w] {
				continue
			}
			alt := b.dist[v] + nb.cost
			switch {
			case b.dist[w] < 0 || alt < b.dist[w]-tolerance:
				b.dist[w] = alt
				b.sigma[w] = b.sigma[v]
				b.preds[w] = append(b.preds[w][:0], v)
				heap.Push(pq, entry{node: w, dist: alt})
			case alt <= b.dist[w]+tolerance:
				b.sigma[w] += b.sigma[v]
				b.preds[w] = append(b.preds[w], v)
			}
		}
	}
}

func (b *brandes) accumulate(s int, cb []float64) {
	for i := len(b.order) - 1; i >= 0; i-- {
		w := b.order[i]
		for _, v := range b.preds[w] {
			b.delta[v] += b.sigma[v] / b.sigma[w] * (1 + b.delta[w])
		}
		if w != s {
			cb[w] += b.delta[w]
		}
	}
}

type entry struct {
	node int
	dist float64
}

// frontier is a min-heap on tentative distance, node index breaking ties.
type frontier []entry

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist == f[j].dist {
		return f[i].node < f[j].node
	}
	return f[i].dist < f[j].dist
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(entry)) }

func (f *frontier) Pop() any {
	old := *f
	item := old[len(old)-1]
	*f = old[:len(old)-1]
	return item
}
