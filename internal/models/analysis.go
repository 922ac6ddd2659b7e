// Package models defines the core data structures shared by the analysis stages.
// It includes mention, character, graph, community and report definitions.
package models

type Community struct {
	ID         int      `json:"id"`
	Members    []string `json:"members"`
	Modularity float64  `json:"modularity"`
}

// Partition is the community detector output. Membership covers every graph
// node exactly once.
type Partition struct {
	Communities []Community    `json:"communities"`
	Membership  map[string]int `json:"membership"`
	Modularity  float64        `json:"modularity"`
	Levels      int            `json:"levels"`
}

type MemberFrequency struct {
	Name      string `json:"name"`
	Frequency int    `json:"frequency"`
}

type CommunityStats struct {
	Community      int               `json:"community"`
	Size           int               `json:"size"`
	InternalEdges  int               `json:"internal_edges"`
	ExternalEdges  int               `json:"external_edges"`
	InternalWeight int               `json:"internal_weight"`
	ExternalWeight int               `json:"external_weight"`
	TotalFrequency int               `json:"total_frequency"`
	Density        float64           `json:"density"`
	Members        []MemberFrequency `json:"members"`
}

type CentralityScore struct {
	Name        string  `json:"name"`
	Betweenness float64 `json:"betweenness"`
	Frequency   int     `json:"frequency"`
	Rank        int     `json:"rank"`
}

type Report struct {
	RunID          string            `json:"run_id"`
	Title          string            `json:"title,omitempty"`
	DocumentLength int               `json:"document_length"`
	MentionCount   int               `json:"mention_count"`
	SentenceCount  int               `json:"sentence_count"`
	Characters     []Character       `json:"characters"`
	Presence       []Presence        `json:"presence"`
	Graph          *Graph            `json:"graph"`
	Partition      *Partition        `json:"partition"`
	CommunityStats []CommunityStats  `json:"community_stats"`
	Centrality     []CentralityScore `json:"centrality"`
	Bridges        []CentralityScore `json:"bridges"`
}
