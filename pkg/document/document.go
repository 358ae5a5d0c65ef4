// Package document reads input files into a uniform pages-plus-outline form
// so the rest of the pipeline never touches format-specific APIs. PDF, HTML
// and plain text/markdown sources are supported; every reader produces
// normalized page text and, where the source carries one, a heading outline.
package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/llm-doc-ranker/models"
)

// Outline provenance values recorded on each document.
const (
	OutlineSidecar     = "sidecar"     // <stem>.json next to the file
	OutlineEmbedded    = "embedded"    // PDF bookmarks or HTML headings
	OutlineSynthesized = "synthesized" // fabricated during extraction
)

// Document is a fully read input file. Pages hold normalized text, index 0
// being page 1. Outline is nil when no structure could be recovered; the
// extractor synthesizes one in that case.
type Document struct {
	Filename    string
	Title       string
	Pages       []string
	Outline     *models.Outline
	OutlineFrom string
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// PageText returns the text of a 1-based page number, or "" out of range.
func (d *Document) PageText(n int) string {
	if n < 1 || n > len(d.Pages) {
		return ""
	}
	return d.Pages[n-1]
}

// Supported reports whether Open understands the file's extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".html", ".htm", ".txt", ".md", ".markdown":
		return true
	}
	return false
}

// Open reads a document by extension. A JSON outline sidecar, when present,
// takes precedence over any outline embedded in the file itself.
func Open(path string) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		doc, err = readPDF(path)
	case ".html", ".htm":
		doc, err = readHTML(path)
	case ".txt", ".md", ".markdown":
		doc, err = readText(path)
	default:
		return nil, fmt.Errorf("unsupported document type: %s", filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}

	sidecar, err := loadSidecarOutline(path)
	if err != nil {
		return nil, err
	}
	if sidecar != nil {
		doc.Outline = sidecar
		doc.OutlineFrom = OutlineSidecar
		if sidecar.Title != "" {
			doc.Title = sidecar.Title
		}
	}

	if doc.Title == "" {
		doc.Title = stem(path)
	}
	return doc, nil
}

// stem returns the base filename without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
