// Package centrality scores how much each character bridges the rest of the
// network and summarizes how closed each community is.
package centrality

import (
	"sort"

	"github.com/charnet/core/internal/models"
)

// CommunityStats summarizes every community of p over the edges of g, in the
// order of p.Communities.
func CommunityStats(g *models.Graph, p *models.Partition) []models.CommunityStats {
	stats := make([]models.CommunityStats, len(p.Communities))
	position := make(map[int]int, len(p.Communities))
	frequency := make(map[string]int, len(g.Nodes))
	for _, node := range g.Nodes {
		frequency[node.ID] = node.Frequency
	}

	for i, c := range p.Communities {
		position[c.ID] = i
		s := &stats[i]
		s.Community = c.ID
		s.Size = len(c.Members)
		s.Members = make([]models.MemberFrequency, 0, len(c.Members))
		for _, name := range c.Members {
			s.Members = append(s.Members, models.MemberFrequency{Name: name, Frequency: frequency[name]})
			s.TotalFrequency += frequency[name]
		}
		sort.Slice(s.Members, func(a, b int) bool {
			if s.Members[a].Frequency == s.Members[b].Frequency {
				return s.Members[a].Name < s.Members[b].Name
			}
			return s.Members[a].Frequency > s.Members[b].Frequency
		})
	}

	for _, e := range g.Edges {
		cu, okU := p.Membership[e.Source]
		cv, okV := p.Membership[e.Target]
		if !okU || !okV {
			continue
		}

		if cu == cv {
			s := &stats[position[cu]]
			s.InternalEdges++
			s.InternalWeight += e.Weight
			continue
		}

		for _, c := range []int{cu, cv} {
			s := &stats[position[c]]
			s.ExternalEdges++
			s.ExternalWeight += e.Weight
		}
	}

	for i := range stats {
		if size := stats[i].Size; size > 1 {
			stats[i].Density = float64(stats[i].InternalEdges) / float64(size*(size-1)/2)
		}
	}

	return stats
}
