// Package extract turns uploaded documents into the plain text consumed by
// the recognizer. Supported formats are plain text, HTML, PDF and EPUB.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
)

const (
	containerPath = "META-INF/container.xml"

	// DefaultMaxUnpackedBytes bounds the decompressed size read from one
	// archive.
	DefaultMaxUnpackedBytes int64 = 64 << 20
)

type container struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type packageDocument struct {
	Titles   []string `xml:"metadata>title"`
	Manifest []struct {
		ID   string `xml:"id,attr"`
		Href string `xml:"href,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

// EPUB reads the spine documents of an EPUB container in reading order.
// MaxUnpackedBytes caps the decompressed bytes read across all entries; zero
// means DefaultMaxUnpackedBytes.
type EPUB struct {
	MaxUnpackedBytes int64
}

type archiveFiles struct {
	files  map[string]*zip.File
	budget int64
}

func (e EPUB) Extract(ctx context.Context, r io.Reader) (*Document, error) {
	data, err := readAll(ctx, FormatEPUB, r)
	if err != nil {
		return nil, err
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fail(FormatEPUB, fmt.Errorf("failed to open archive: %w", err))
	}

	budget := e.MaxUnpackedBytes
	if budget <= 0 {
		budget = DefaultMaxUnpackedBytes
	}
	files := &archiveFiles{files: make(map[string]*zip.File, len(archive.File)), budget: budget}
	for _, f := range archive.File {
		files.files[f.Name] = f
	}

	var c container
	if err := decodeXML(files, containerPath, &c); err != nil {
		return nil, fail(FormatEPUB, err)
	}
	if len(c.Rootfiles) == 0 || c.Rootfiles[0].FullPath == "" {
		return nil, fail(FormatEPUB, errors.New("container lists no package document"))
	}

	opfPath := c.Rootfiles[0].FullPath
	var pkg packageDocument
	if err := decodeXML(files, opfPath, &pkg); err != nil {
		return nil, fail(FormatEPUB, err)
	}

	hrefs := make(map[string]string, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		hrefs[item.ID] = item.Href
	}

	base := path.Dir(opfPath)
	var chapters []string
	for _, ref := range pkg.Spine {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		href, ok := hrefs[ref.IDRef]
		if !ok {
			continue
		}
		if unescaped, err := url.PathUnescape(href); err == nil {
			href = unescaped
		}

		content, err := files.read(path.Join(base, href))
		if err != nil {
			return nil, fail(FormatEPUB, err)
		}

		_, text, err := htmlText(content)
		if err != nil {
			return nil, fail(FormatEPUB, fmt.Errorf("%s: %w", href, err))
		}
		if text != "" {
			chapters = append(chapters, text)
		}
	}

	if len(chapters) == 0 {
		return nil, fail(FormatEPUB, ErrEmpty)
	}

	var title string
	if len(pkg.Titles) > 0 {
		title = pkg.Titles[0]
	}

	return newDocument(FormatEPUB, title, strings.Join(chapters, "\n\n")), nil
}

func (a *archiveFiles) read(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("missing %s", name)
	}
	if f.UncompressedSize64 > uint64(a.budget) {
		return nil, fmt.Errorf("%s: %w", name, ErrTooLarge)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()

	// Declared sizes can be forged.
	data, err := io.ReadAll(io.LimitReader(rc, a.budget+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if int64(len(data)) > a.budget {
		return nil, fmt.Errorf("%s: %w", name, ErrTooLarge)
	}

	a.budget -= int64(len(data))
	return data, nil
}

func decodeXML(files *archiveFiles, name string, v any) error {
	data, err := files.read(name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
