// Package aggregator folds a mention stream into canonical characters and the
// per-sentence character sets consumed by the co-occurrence builder.
package aggregator

import (
	"context"
	"iter"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charnet/core/internal/config"
	"github.com/charnet/core/internal/models"
	"github.com/charnet/core/internal/resolver"
)

// Cancellation is polled once per this many mentions.
const cancelCheckInterval = 4096

type Aggregator struct {
	resolver      resolver.Resolver
	categories    map[string]struct{}
	minNameLength int
	maxNameWords  int
}

type Result struct {
	Characters     map[string]*models.Character
	Sentences      []models.SentenceGroup
	DocumentLength int
	Mentions       int
	Discarded      int
}

func New(r resolver.Resolver, opts config.Options) *Aggregator {
	categories := make(map[string]struct{}, len(opts.PersonCategories))
	for _, c := range opts.PersonCategories {
		categories[strings.ToLower(c)] = struct{}{}
	}

	return &Aggregator{
		resolver:      r,
		categories:    categories,
		minNameLength: opts.MinNameLength,
		maxNameWords:  opts.MaxNameWords,
	}
}

// Aggregate consumes mentions exactly once. Nothing is returned when ctx is
// cancelled before the stream is exhausted.
func (a *Aggregator) Aggregate(ctx context.Context, mentions iter.Seq[models.Mention]) (*Result, error) {
	characters := make(map[string]*models.Character)
	surfaces := make(map[string]map[string]struct{})
	sentences := make(map[int]map[string]struct{})
	seenSentence := make(map[string]map[int]struct{})

	result := &Result{}
	var cancelErr error

	for m := range mentions {
		result.Mentions++
		if result.Mentions%cancelCheckInterval == 0 {
			if cancelErr = ctx.Err(); cancelErr != nil {
				break
			}
		}

		if m.DocumentLength > result.DocumentLength {
			result.DocumentLength = m.DocumentLength
		}

		group, ok := sentences[m.Sentence]
		if !ok {
			group = make(map[string]struct{})
			sentences[m.Sentence] = group
		}

		name := a.canonical(m)
		if name == "" {
			result.Discarded++
			continue
		}

		c, ok := characters[name]
		if !ok {
			c = &models.Character{Name: name}
			characters[name] = c
			surfaces[name] = make(map[string]struct{})
			seenSentence[name] = make(map[int]struct{})
		}

		c.Frequency++
		c.Positions = append(c.Positions, position(m.Offset, m.DocumentLength))
		if _, ok := seenSentence[name][m.Sentence]; !ok {
			seenSentence[name][m.Sentence] = struct{}{}
			c.Sentences = append(c.Sentences, m.Sentence)
		}
		surfaces[name][strings.TrimSpace(m.Text)] = struct{}{}
		group[name] = struct{}{}
	}

	if cancelErr != nil {
		return nil, cancelErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for name, c := range characters {
		sort.Float64s(c.Positions)
		sort.Ints(c.Sentences)
		c.SurfaceForms = sortedKeys(surfaces[name])
	}

	result.Characters = characters
	result.Sentences = sentenceGroups(sentences)

	return result, nil
}

func (a *Aggregator) canonical(m models.Mention) string {
	if _, ok := a.categories[strings.ToLower(strings.TrimSpace(m.Category))]; !ok {
		return ""
	}

	name := a.resolver.Resolve(m.Text)
	if utf8.RuneCountInString(name) < a.minNameLength {
		return ""
	}
	if a.maxNameWords > 0 && len(strings.Fields(name)) > a.maxNameWords {
		return ""
	}

	return name
}

// position maps an offset into [0,1]. Unknown document lengths map to 0.
func position(offset, length int) float64 {
	if length <= 0 || offset <= 0 {
		return 0
	}
	p := float64(offset) / float64(length)
	if p > 1 {
		return 1
	}
	return p
}

func sentenceGroups(sentences map[int]map[string]struct{}) []models.SentenceGroup {
	groups := make([]models.SentenceGroup, 0, len(sentences))
	for index, names := range sentences {
		groups = append(groups, models.SentenceGroup{
			Index:      index,
			Characters: sortedKeys(names),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Index < groups[j].Index
	})

	return groups
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
