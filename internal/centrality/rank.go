// Package centrality scores how much each character bridges the rest of the
// network and summarizes how closed each community is.
package centrality

import (
	"sort"

	"github.com/charnet/core/internal/models"
)

// Rank orders every node of g by betweenness descending, then frequency
// descending, then name ascending. Ranks start at 1.
func Rank(scores map[string]float64, g *models.Graph) []models.CentralityScore {
	ranked := make([]models.CentralityScore, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		ranked = append(ranked, models.CentralityScore{
			Name:        node.ID,
			Betweenness: scores[node.ID],
			Frequency:   node.Frequency,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Betweenness != b.Betweenness {
			return a.Betweenness > b.Betweenness
		}
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		return a.Name < b.Name
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}

// Bridges returns the first k ranked entries with a positive score.
func Bridges(ranked []models.CentralityScore, k int) []models.CentralityScore {
	bridges := []models.CentralityScore{}
	for _, score := range ranked {
		if len(bridges) == k || score.Betweenness <= 0 {
			break
		}
		bridges = append(bridges, score)
	}
	return bridges
}
