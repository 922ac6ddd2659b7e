// Package extract turns uploaded documents into the plain text consumed by
// the recognizer. Supported formats are plain text, HTML, PDF and EPUB.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Plain reads UTF-8 text. Input that is not valid UTF-8 is decoded as
// Windows-1252, the usual encoding of older plain-text books.
type Plain struct{}

func (Plain) Extract(ctx context.Context, r io.Reader) (*Document, error) {
	data, err := readAll(ctx, FormatText, r)
	if err != nil {
		return nil, err
	}

	text, err := decodeText(data)
	if err != nil {
		return nil, fail(FormatText, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fail(FormatText, ErrEmpty)
	}

	return newDocument(FormatText, "", text), nil
}

func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return norm.NFC.String(string(data)), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return norm.NFC.String(string(decoded)), nil
}
