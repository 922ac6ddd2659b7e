// Package extract turns uploaded documents into the plain text consumed by
// the recognizer. Supported formats are plain text, HTML, PDF and EPUB.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

type PDF struct{}

func (PDF) Extract(ctx context.Context, r io.Reader) (doc *Document, err error) {
	data, err := readAll(ctx, FormatPDF, r)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fail(FormatPDF, errors.New("missing %PDF- header"))
	}

	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if p := recover(); p != nil {
			doc, err = nil, fail(FormatPDF, fmt.Errorf("corrupt document: %v", p))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fail(FormatPDF, fmt.Errorf("failed to open pdf: %w", err))
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, fail(FormatPDF, fmt.Errorf("failed to read text: %w", err))
	}

	var buf strings.Builder
	if _, err := io.Copy(&buf, plain); err != nil {
		return nil, fail(FormatPDF, fmt.Errorf("failed to read text: %w", err))
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return nil, fail(FormatPDF, ErrEmpty)
	}

	return newDocument(FormatPDF, reader.Trailer().Key("Info").Key("Title").Text(), text), nil
}
