// Package models defines the core data structures shared by the analysis stages.
// It includes mention, character, graph, community and report definitions.
package models

import "sort"

// PresenceBuckets is the number of equal slices the narrative is split into
// when summarizing where a character appears.
const PresenceBuckets = 10

type Mention struct {
	Text           string `json:"text"`
	Category       string `json:"category"`
	Sentence       int    `json:"sentence"`
	Offset         int    `json:"offset"`
	DocumentLength int    `json:"document_length,omitempty"`
}

type Character struct {
	Name         string    `json:"name"`
	Frequency    int       `json:"frequency"`
	Positions    []float64 `json:"positions"`
	Sentences    []int     `json:"sentences"`
	SurfaceForms []string  `json:"surface_forms,omitempty"`
}

type SentenceGroup struct {
	Index      int      `json:"index"`
	Characters []string `json:"characters"`
}

// Presence summarizes the temporal footprint of a character.
type Presence struct {
	Name      string  `json:"name"`
	First     float64 `json:"first"`
	Last      float64 `json:"last"`
	Histogram []int   `json:"histogram"`
}

func (c *Character) Presence() Presence {
	p := Presence{
		Name:      c.Name,
		Histogram: make([]int, PresenceBuckets),
	}
	if len(c.Positions) == 0 {
		return p
	}

	p.First = c.Positions[0]
	p.Last = c.Positions[len(c.Positions)-1]
	for _, pos := range c.Positions {
		bucket := int(pos * PresenceBuckets)
		if bucket >= PresenceBuckets {
			bucket = PresenceBuckets - 1
		}
		if bucket < 0 {
			bucket = 0
		}
		p.Histogram[bucket]++
	}

	return p
}

// RankCharacters orders characters by frequency descending, then name ascending.
func RankCharacters(characters map[string]*Character) []*Character {
	ranked := make([]*Character, 0, len(characters))
	for _, c := range characters {
		ranked = append(ranked, c)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Frequency == ranked[j].Frequency {
			return ranked[i].Name < ranked[j].Name
		}
		return ranked[i].Frequency > ranked[j].Frequency
	})

	return ranked
}
