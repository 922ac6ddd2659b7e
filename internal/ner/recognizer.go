// Package ner is the boundary to named-entity recognition. It offers a small
// capitalization heuristic and a decoder for mention streams produced by an
// external model.
package ner

import (
	"context"
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charnet/core/internal/models"
)

const CategoryPerson = "person"

// Recognizer yields the person mentions of a text in reading order. The
// sequence can be consumed once.
type Recognizer interface {
	Recognize(ctx context.Context, text string) iter.Seq[models.Mention]
}

var (
	sentencePattern = regexp.MustCompile(`[^.!?\n]+[.!?]*`)
	namePattern     = regexp.MustCompile(`\p{Lu}[\p{Ll}'’-]+(?:[ \t]+\p{Lu}[\p{Ll}'’-]+)*`)
)

// Capitalized words that start sentences far more often than they name anyone.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "as": {}, "at": {}, "but": {}, "by": {}, "chapter": {},
	"for": {}, "from": {}, "he": {}, "her": {}, "his": {}, "how": {}, "if": {}, "in": {},
	"it": {}, "its": {}, "my": {}, "no": {}, "not": {}, "of": {}, "oh": {}, "on": {},
	"or": {}, "our": {}, "she": {}, "so": {}, "that": {}, "the": {}, "their": {}, "then": {},
	"there": {}, "these": {}, "they": {}, "this": {}, "those": {}, "to": {}, "we": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "why": {}, "with": {},
	"yes": {}, "you": {}, "your": {},
	"ao": {}, "aos": {}, "capítulo": {}, "com": {}, "como": {}, "da": {}, "das": {},
	"de": {}, "do": {}, "dos": {}, "ela": {}, "elas": {}, "ele": {}, "eles": {}, "em": {},
	"então": {}, "era": {}, "essa": {}, "esse": {}, "esta": {}, "este": {}, "eu": {},
	"foi": {}, "mas": {}, "na": {}, "nas": {}, "não": {}, "nem": {}, "nos": {},
	"os": {}, "para": {}, "pela": {}, "pelo": {}, "por": {}, "quando": {}, "que": {},
	"se": {}, "sem": {}, "seu": {}, "sim": {}, "sua": {}, "um": {}, "uma": {},
}

// Heuristic treats runs of capitalized words as person names. It stands in
// for a trained model when none is available.
type Heuristic struct {
	maxWords int
}

// NewHeuristic caps candidate names at maxWords words. A value of 0 or less
// keeps runs of any length.
func NewHeuristic(maxWords int) *Heuristic {
	return &Heuristic{maxWords: max(maxWords, 0)}
}

// Recognize splits text into sentences and reports each candidate name at
// the rune offset where its sentence starts. The sequence stops early when
// ctx is done.
func (h *Heuristic) Recognize(ctx context.Context, text string) iter.Seq[models.Mention] {
	length := utf8.RuneCountInString(text)

	return func(yield func(models.Mention) bool) {
		sentence := 0
		runeOffset, byteOffset := 0, 0

		for _, span := range sentencePattern.FindAllStringIndex(text, -1) {
			if ctx.Err() != nil {
				return
			}

			runeOffset += utf8.RuneCountInString(text[byteOffset:span[0]])
			byteOffset = span[0]

			body := text[span[0]:span[1]]
			if strings.TrimSpace(body) == "" {
				continue
			}

			start := runeOffset + leadingSpaceRunes(body)
			for _, name := range h.names(body) {
				m := models.Mention{
					Text:           name,
					Category:       CategoryPerson,
					Sentence:       sentence,
					Offset:         start,
					DocumentLength: length,
				}
				if !yield(m) {
					return
				}
			}
			sentence++
		}
	}
}

func (h *Heuristic) names(sentence string) []string {
	var names []string
	for _, span := range namePattern.FindAllStringIndex(sentence, -1) {
		if span[0] > 0 {
			prev, _ := utf8.DecodeLastRuneInString(sentence[:span[0]])
			if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
				continue
			}
		}

		words := strings.Fields(sentence[span[0]:span[1]])
		for len(words) > 0 && isStopword(words[0]) {
			words = words[1:]
		}
		if len(words) == 0 || (h.maxWords > 0 && len(words) > h.maxWords) {
			continue
		}

		names = append(names, strings.Join(words, " "))
	}
	return names
}

func isStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(strings.TrimRight(word, "'’-"))]
	return ok
}

func leadingSpaceRunes(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}
