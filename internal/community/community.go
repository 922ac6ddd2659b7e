// Package community partitions a character graph by greedy modularity
// optimization (Louvain method).
package community

import (
	"context"
	"sort"

	"github.com/charnet/core/internal/logger"
	"github.com/charnet/core/internal/models"
)

const (
	// Gains within epsilon of the current best are ties.
	epsilon = 1e-12

	maxSweepsPerLevel = 256
)

type Detector struct {
	maxPasses  int
	resolution float64
}

// NewDetector returns a detector that stops after maxPasses aggregation levels.
func NewDetector(maxPasses int, resolution float64) *Detector {
	if maxPasses < 1 {
		maxPasses = 1
	}
	if resolution <= 0 {
		resolution = 1
	}
	return &Detector{maxPasses: maxPasses, resolution: resolution}
}

// Detect partitions g. Node order in g is the canonical order used to break
// ties, so identical graphs always give identical partitions.
func (d *Detector) Detect(ctx context.Context, g *models.Graph) (*models.Partition, error) {
	if len(g.Nodes) == 0 {
		return &models.Partition{
			Communities: []models.Community{},
			Membership:  map[string]int{},
		}, nil
	}

	net := fromGraph(g)
	membership := make([]int, len(g.Nodes))
	for i := range membership {
		membership[i] = i
	}

	levels := 0
	for pass := 0; pass < d.maxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		comm, improved := net.localMove(d.resolution)
		if !improved {
			break
		}
		levels++

		coarse, renumbered := net.aggregate(comm)
		for i := range membership {
			membership[i] = renumbered[membership[i]]
		}

		logger.Debug("Louvain level done", "level", levels, "communities", coarse.size())

		if coarse.size() == net.size() {
			break
		}
		net = coarse
	}

	return d.partition(g, membership, levels), nil
}

func (d *Detector) partition(g *models.Graph, membership []int, levels int) *models.Partition {
	groups := make(map[int][]int)
	for i, c := range membership {
		groups[c] = append(groups[c], i)
	}

	ordered := make([][]int, 0, len(groups))
	for _, members := range groups {
		ordered = append(ordered, members)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) == len(ordered[j]) {
			return ordered[i][0] < ordered[j][0]
		}
		return len(ordered[i]) > len(ordered[j])
	})

	result := &models.Partition{
		Communities: make([]models.Community, 0, len(ordered)),
		Membership:  make(map[string]int, len(g.Nodes)),
		Levels:      levels,
	}

	for id, members := range ordered {
		names := make([]string, len(members))
		for k, idx := range members {
			names[k] = g.Nodes[idx].ID
			result.Membership[names[k]] = id
		}
		result.Communities = append(result.Communities, models.Community{ID: id, Members: names})
	}

	total, contributions := Modularity(g, result.Membership, d.resolution)
	result.Modularity = total
	for i := range result.Communities {
		result.Communities[i].Modularity = contributions[result.Communities[i].ID]
	}

	return result
}

// Modularity scores membership on g and returns the total plus each
// community's share. Graphs without edges score zero.
func Modularity(g *models.Graph, membership map[string]int, resolution float64) (float64, map[int]float64) {
	contributions := make(map[int]float64)
	for _, c := range membership {
		contributions[c] = 0
	}

	internal := make(map[int]float64)
	degreeSum := make(map[int]float64)
	var total float64
	for _, e := range g.Edges {
		cu, okU := membership[e.Source]
		cv, okV := membership[e.Target]
		if !okU || !okV {
			continue
		}

		w := float64(e.Weight)
		total += 2 * w
		degreeSum[cu] += w
		degreeSum[cv] += w
		if cu == cv {
			internal[cu] += 2 * w
		}
	}

	if total == 0 {
		return 0, contributions
	}

	ids := make([]int, 0, len(contributions))
	for c := range contributions {
		ids = append(ids, c)
	}
	sort.Ints(ids)

	var q float64
	for _, c := range ids {
		share := degreeSum[c] / total
		contributions[c] = internal[c]/total - resolution*share*share
		q += contributions[c]
	}

	return q, contributions
}
