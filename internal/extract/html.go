// Package extract turns uploaded documents into the plain text consumed by
// the recognizer. Supported formats are plain text, HTML, PDF and EPUB.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre, dd, dt"

type HTML struct{}

func (HTML) Extract(ctx context.Context, r io.Reader) (*Document, error) {
	data, err := readAll(ctx, FormatHTML, r)
	if err != nil {
		return nil, err
	}

	title, text, err := htmlText(data)
	if err != nil {
		return nil, fail(FormatHTML, err)
	}
	if text == "" {
		return nil, fail(FormatHTML, ErrEmpty)
	}

	return newDocument(FormatHTML, title, text), nil
}

// htmlText returns the document title and its block-level text, one block per
// paragraph. Pages without block elements fall back to the body text.
func htmlText(data []byte) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()
	title := collapse(doc.Find("title").First().Text())

	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		if text := collapse(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})

	if len(blocks) == 0 {
		body := doc.Find("body")
		if body.Length() == 0 {
			body = doc.Selection
		}
		return title, collapse(body.Text()), nil
	}

	return title, strings.Join(blocks, "\n\n"), nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
