// Package resolver maps raw entity surface forms to canonical character names.
package resolver

import (
	"fmt"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/charnet/core/internal/config"
)

// Names shorter than this never take part in fuzzy matching.
const minFuzzyLength = 4

// Resolver returns the canonical name for a surface form, or "" when the
// surface form has no usable content.
type Resolver interface {
	Resolve(surface string) string
}

func New(opts config.Options) (Resolver, error) {
	n := NewNormalizer(opts.StripTitles)

	switch opts.Resolver {
	case "", config.ResolverExact:
		return NewExact(n), nil
	case config.ResolverEditDistance:
		return NewEditDistance(n, opts.MaxEditDistance), nil
	case config.ResolverAlias:
		return NewAliasTable(n, opts.Aliases), nil
	default:
		return nil, &config.ConfigurationError{
			Field:  "resolver",
			Reason: fmt.Sprintf("unknown resolver %q", opts.Resolver),
		}
	}
}

type Exact struct {
	normalizer *Normalizer
}

func NewExact(n *Normalizer) *Exact {
	return &Exact{normalizer: n}
}

func (e *Exact) Resolve(surface string) string {
	return e.normalizer.Normalize(surface)
}

// EditDistance merges a name into the earliest seen canonical name within
// maxDistance edits. Results depend on the order names are first seen.
type EditDistance struct {
	normalizer  *Normalizer
	maxDistance int
	canonical   []string
	resolved    map[string]string
}

func NewEditDistance(n *Normalizer, maxDistance int) *EditDistance {
	return &EditDistance{
		normalizer:  n,
		maxDistance: maxDistance,
		resolved:    make(map[string]string),
	}
}

func (e *EditDistance) Resolve(surface string) string {
	name := e.normalizer.Normalize(surface)
	if name == "" {
		return ""
	}
	if canonical, ok := e.resolved[name]; ok {
		return canonical
	}

	match := e.closest(name)
	if match == "" {
		e.canonical = append(e.canonical, name)
		match = name
	}
	e.resolved[name] = match

	return match
}

func (e *EditDistance) closest(name string) string {
	length := utf8.RuneCountInString(name)
	if e.maxDistance == 0 || length < minFuzzyLength {
		return ""
	}

	best := ""
	bestDistance := e.maxDistance + 1
	for _, candidate := range e.canonical {
		candidateLength := utf8.RuneCountInString(candidate)
		if candidateLength < minFuzzyLength || abs(candidateLength-length) > e.maxDistance {
			continue
		}
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}

	return best
}

// AliasTable rewrites known aliases to their canonical name; unknown names
// fall through to exact normalization.
type AliasTable struct {
	normalizer *Normalizer
	table      map[string]string
}

func NewAliasTable(n *Normalizer, aliases map[string]string) *AliasTable {
	table := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		a, c := n.Normalize(alias), n.Normalize(canonical)
		if a == "" || c == "" {
			continue
		}
		table[a] = c
	}
	return &AliasTable{normalizer: n, table: table}
}

func (a *AliasTable) Resolve(surface string) string {
	name := a.normalizer.Normalize(surface)
	if canonical, ok := a.table[name]; ok {
		return canonical
	}
	return name
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
