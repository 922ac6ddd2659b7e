// Package ner is the boundary to named-entity recognition. It offers a small
// capitalization heuristic and a decoder for mention streams produced by an
// external model.
package ner

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/charnet/core/internal/models"
)

// Stream decodes a sequence of JSON mention objects, one per line, as
// written by an external recognizer. Decoding stops at the first malformed
// object; Err reports it once the sequence is drained.
type Stream struct {
	dec            *json.Decoder
	documentLength int
	decoded        int
	err            error
}

// NewStream reads mentions from r. A positive documentLength fills mentions
// that do not carry their own.
func NewStream(r io.Reader, documentLength int) *Stream {
	return &Stream{dec: json.NewDecoder(r), documentLength: documentLength}
}

func (s *Stream) All() iter.Seq[models.Mention] {
	return func(yield func(models.Mention) bool) {
		for {
			var m models.Mention
			if err := s.dec.Decode(&m); err != nil {
				if !errors.Is(err, io.EOF) {
					s.err = fmt.Errorf("failed to decode mention %d: %w", s.decoded+1, err)
				}
				return
			}

			s.decoded++
			if m.DocumentLength == 0 {
				m.DocumentLength = s.documentLength
			}
			if !yield(m) {
				return
			}
		}
	}
}

func (s *Stream) Err() error {
	return s.err
}

// Decoded is the number of mentions read so far.
func (s *Stream) Decoded() int {
	return s.decoded
}
