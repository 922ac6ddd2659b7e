// Package extract turns uploaded documents into the plain text consumed by
// the recognizer. Supported formats are plain text, HTML, PDF and EPUB.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	FormatText = "text"
	FormatHTML = "html"
	FormatPDF  = "pdf"
	FormatEPUB = "epub"
)

// Formats lists the supported formats in a stable order.
var Formats = []string{FormatText, FormatHTML, FormatPDF, FormatEPUB}

var (
	ErrUnsupported = errors.New("unsupported document format")
	ErrEmpty       = errors.New("document has no text")
	ErrTooLarge    = errors.New("document exceeds the unpacked size limit")
)

// Document is ordered, contiguous plain text. Length counts runes, which is
// the unit mention offsets are expressed in.
type Document struct {
	Text   string
	Length int
	Format string
	Title  string
}

func newDocument(format, title, text string) *Document {
	return &Document{
		Text:   text,
		Length: utf8.RuneCountInString(text),
		Format: format,
		Title:  strings.TrimSpace(title),
	}
}

type Extractor interface {
	Extract(ctx context.Context, r io.Reader) (*Document, error)
}

// ExtractionError reports an unreadable, corrupt or unsupported document.
type ExtractionError struct {
	Format string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("extraction failed: %v", e.Err)
	}
	return fmt.Sprintf("%s extraction failed: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func fail(format string, err error) error {
	return &ExtractionError{Format: format, Err: err}
}

// ForContentType picks the extractor for a MIME type. An empty type is read
// as plain text.
func ForContentType(contentType string) (Extractor, error) {
	if strings.TrimSpace(contentType) == "" {
		return Plain{}, nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fail("", fmt.Errorf("invalid content type %q: %w", contentType, err))
	}

	switch mediaType {
	case "text/plain", "text/markdown":
		return Plain{}, nil
	case "text/html", "application/xhtml+xml":
		return HTML{}, nil
	case "application/pdf":
		return PDF{}, nil
	case "application/epub+zip":
		return EPUB{}, nil
	default:
		return nil, fail("", fmt.Errorf("%w: %s", ErrUnsupported, mediaType))
	}
}

// ForPath picks the extractor from a file extension.
func ForPath(path string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".text":
		return Plain{}, nil
	case ".html", ".htm", ".xhtml":
		return HTML{}, nil
	case ".pdf":
		return PDF{}, nil
	case ".epub":
		return EPUB{}, nil
	default:
		return nil, fail("", fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path)))
	}
}

func readAll(ctx context.Context, format string, r io.Reader) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fail(format, fmt.Errorf("failed to read document: %w", err))
	}
	if len(data) == 0 {
		return nil, fail(format, ErrEmpty)
	}

	return data, nil
}
