// Package models defines the core data structures shared by the analysis stages.
// It includes mention, character, graph, community and report definitions.
package models

type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Stats *Stats `json:"stats,omitempty"`
}

type Node struct {
	ID        string `json:"id"`
	Frequency int    `json:"frequency"`
}

// Edge is an undirected co-occurrence link. Source sorts before Target.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

type Stats struct {
	TotalNodes    int `json:"total_nodes"`
	TotalEdges    int `json:"total_edges"`
	TotalWeight   int `json:"total_weight"`
	IsolatedNodes int `json:"isolated_nodes"`
	Components    int `json:"components"`
}

// Index maps node ids to their position in the canonical node ordering.
func (g *Graph) Index() map[string]int {
	index := make(map[string]int, len(g.Nodes))
	for i, node := range g.Nodes {
		index[node.ID] = i
	}
	return index
}
