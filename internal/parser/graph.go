// Package parser provides utilities for parsing and transforming input data.
// It handles request validation and assembly of the character graph.
package parser

import (
	"github.com/charnet/core/internal/models"
)

// BuildGraph keeps the topN most frequent characters (ties by name) and the
// co-occurrence edges whose endpoints both survive. topN <= 0 gives an empty
// graph.
func BuildGraph(characters map[string]*models.Character, edges []models.Edge, topN int) *models.Graph {
	graph := &models.Graph{
		Nodes: []models.Node{},
		Edges: []models.Edge{},
	}
	nodeMap := make(map[string]bool)

	if topN > 0 {
		for _, c := range models.RankCharacters(characters) {
			if len(graph.Nodes) == topN {
				break
			}

			graph.Nodes = append(graph.Nodes, models.Node{
				ID:        c.Name,
				Frequency: c.Frequency,
			})
			nodeMap[c.Name] = true
		}
	}

	edgeMap := make(map[[2]string]int)
	for _, edge := range edges {
		if edge.Source == edge.Target || edge.Weight < 1 {
			continue
		}
		if !nodeMap[edge.Source] || !nodeMap[edge.Target] {
			continue
		}

		edge = normalizeEdge(edge)
		key := [2]string{edge.Source, edge.Target}
		if i, exists := edgeMap[key]; exists {
			graph.Edges[i].Weight += edge.Weight
			continue
		}

		edgeMap[key] = len(graph.Edges)
		graph.Edges = append(graph.Edges, edge)
	}

	graph.Stats = buildStats(graph)

	return graph
}

func normalizeEdge(edge models.Edge) models.Edge {
	if edge.Target < edge.Source {
		edge.Source, edge.Target = edge.Target, edge.Source
	}
	return edge
}

func buildStats(graph *models.Graph) *models.Stats {
	stats := &models.Stats{
		TotalNodes: len(graph.Nodes),
		TotalEdges: len(graph.Edges),
	}

	index := graph.Index()
	parent := make([]int, len(graph.Nodes))
	degree := make([]int, len(graph.Nodes))
	for i := range parent {
		parent[i] = i
	}

	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	for _, edge := range graph.Edges {
		stats.TotalWeight += edge.Weight
		u, v := index[edge.Source], index[edge.Target]
		degree[u]++
		degree[v]++
		if ru, rv := find(u), find(v); ru != rv {
			parent[ru] = rv
		}
	}

	for i := range graph.Nodes {
		if degree[i] == 0 {
			stats.IsolatedNodes++
		}
		if find(i) == i {
			stats.Components++
		}
	}

	return stats
}
