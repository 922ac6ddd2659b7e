// Package resolver maps raw entity surface forms to canonical character names.
package resolver

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Honorifics removed when title stripping is enabled.
var titles = map[string]struct{}{
	"sor": {}, "lorde": {}, "lady": {}, "rei": {}, "rainha": {}, "senhor": {},
	"senhora": {}, "príncipe": {}, "princesa": {}, "dom": {}, "dona": {},
	"mr": {}, "mrs": {}, "ms": {}, "miss": {}, "sir": {}, "lord": {},
	"king": {}, "queen": {}, "prince": {}, "princess": {}, "dr": {},
}

// Normalizer canonicalizes whitespace and casing. It holds a cases.Caser and
// must not be shared between goroutines.
type Normalizer struct {
	caser       cases.Caser
	stripTitles bool
}

func NewNormalizer(stripTitles bool) *Normalizer {
	return &Normalizer{
		caser:       cases.Title(language.Und),
		stripTitles: stripTitles,
	}
}

// Normalize returns the canonical form of surface, or "" when nothing is left.
func (n *Normalizer) Normalize(surface string) string {
	fields := strings.Fields(norm.NFC.String(surface))

	kept := fields[:0]
	for _, field := range fields {
		field = strings.TrimFunc(field, isEdgePunct)
		if field == "" {
			continue
		}
		if n.stripTitles && isTitle(field) {
			continue
		}
		kept = append(kept, field)
	}

	if len(kept) == 0 {
		return ""
	}

	return n.caser.String(strings.Join(kept, " "))
}

func isTitle(word string) bool {
	_, ok := titles[strings.ToLower(word)]
	return ok
}

func isEdgePunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
