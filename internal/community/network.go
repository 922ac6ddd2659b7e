// Package community partitions a character graph by greedy modularity
// optimization (Louvain method).
package community

import (
	"sort"

	"github.com/charnet/core/internal/models"
)

type arc struct {
	to     int
	weight float64
}

// network is the weighted working graph of one Louvain level. Node i of a
// coarse level is the community with the i-th lowest member of the level below.
type network struct {
	adj    [][]arc
	self   []float64
	degree []float64
	total  float64
}

func fromGraph(g *models.Graph) *network {
	n := len(g.Nodes)
	net := &network{
		adj:    make([][]arc, n),
		self:   make([]float64, n),
		degree: make([]float64, n),
	}

	index := g.Index()
	for _, e := range g.Edges {
		u, okU := index[e.Source]
		v, okV := index[e.Target]
		if !okU || !okV || e.Weight <= 0 {
			continue
		}

		w := float64(e.Weight)
		net.total += 2 * w
		if u == v {
			net.self[u] += w
			net.degree[u] += 2 * w
			continue
		}

		net.adj[u] = append(net.adj[u], arc{to: v, weight: w})
		net.adj[v] = append(net.adj[v], arc{to: u, weight: w})
		net.degree[u] += w
		net.degree[v] += w
	}

	return net
}

func (net *network) size() int {
	return len(net.adj)
}

// localMove runs sweeps in node order until no node changes community.
// Community labels are node ids of the level.
func (net *network) localMove(resolution float64) ([]int, bool) {
	n := net.size()
	comm := make([]int, n)
	tot := make([]float64, n)
	for i := range comm {
		comm[i] = i
		tot[i] = net.degree[i]
	}

	if net.total == 0 {
		return comm, false
	}

	links := make(map[int]float64)
	candidates := make([]int, 0, 8)
	improved := false

	for sweep := 0; sweep < maxSweepsPerLevel; sweep++ {
		moved := false

		for i := 0; i < n; i++ {
			current := comm[i]
			ki := net.degree[i]

			clear(links)
			candidates = candidates[:0]
			for _, a := range net.adj[i] {
				c := comm[a.to]
				if _, seen := links[c]; !seen {
					candidates = append(candidates, c)
				}
				links[c] += a.weight
			}
			sort.Ints(candidates)

			tot[current] -= ki
			best := current
			bestGain := links[current] - resolution*tot[current]*ki/net.total

			for _, c := range candidates {
				if c == current {
					continue
				}
				gain := links[c] - resolution*tot[c]*ki/net.total
				if gain > bestGain+epsilon {
					best, bestGain = c, gain
				}
			}
			tot[best] += ki

			if best != current {
				comm[i] = best
				moved = true
				improved = true
			}
		}

		if !moved {
			break
		}
	}

	return comm, improved
}

// aggregate collapses every community into one node. Inter-community arcs sum
// their weights; intra-community edges become the node's self-loop weight.
func (net *network) aggregate(comm []int) (*network, []int) {
	label := make(map[int]int)
	renumbered := make([]int, len(comm))
	for i, c := range comm {
		l, ok := label[c]
		if !ok {
			l = len(label)
			label[c] = l
		}
		renumbered[i] = l
	}

	k := len(label)
	coarse := &network{
		adj:    make([][]arc, k),
		self:   make([]float64, k),
		degree: make([]float64, k),
		total:  net.total,
	}

	between := make([]map[int]float64, k)
	for i := range between {
		between[i] = make(map[int]float64)
	}

	for i := 0; i < net.size(); i++ {
		ci := renumbered[i]
		coarse.degree[ci] += net.degree[i]
		coarse.self[ci] += net.self[i]

		for _, a := range net.adj[i] {
			cj := renumbered[a.to]
			if ci == cj {
				if i < a.to {
					coarse.self[ci] += a.weight
				}
				continue
			}
			between[ci][cj] += a.weight
		}
	}

	for ci, targets := range between {
		ids := make([]int, 0, len(targets))
		for cj := range targets {
			ids = append(ids, cj)
		}
		sort.Ints(ids)
		for _, cj := range ids {
			coarse.adj[ci] = append(coarse.adj[ci], arc{to: cj, weight: targets[cj]})
		}
	}

	return coarse, renumbered
}
