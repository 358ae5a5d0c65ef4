package document

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/dtnitsch/llm-doc-ranker/models"
)

// readHTML distills the main article content with go-readability, then walks
// the clean HTML with goquery. Each heading opens a new synthetic page so
// the page-oriented extractor works on HTML exactly as it does on PDFs; the
// headings themselves become the embedded outline.
func readHTML(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	pageURL := &url.URL{Scheme: "file", Path: path}
	article, err := readability.NewParser().Parse(strings.NewReader(string(raw)), pageURL)
	if err != nil {
		return nil, fmt.Errorf("readability parse %s: %w", filepath.Base(path), err)
	}

	gq, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil, fmt.Errorf("parsing distilled content of %s: %w", filepath.Base(path), err)
	}

	var (
		pages   []string
		entries []models.OutlineEntry
		current strings.Builder
	)
	// A heading with no body still owns a page so outline page numbers
	// stay aligned; the extractor skips empty sections later.
	flush := func() {
		if current.Len() == 0 {
			return
		}
		pages = append(pages, NormalizeText(current.String()))
		current.Reset()
	}

	gq.Find("h1,h2,h3,h4,p,li,pre").Each(func(i int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		text := NormalizeText(s.Text())

		switch tag {
		case "h1", "h2", "h3", "h4":
			flush()
			if text != "" {
				entries = append(entries, models.OutlineEntry{
					Text:  text,
					Page:  len(pages) + 1,
					Level: strings.ToUpper(tag),
				})
			}
			current.WriteString(text)
			current.WriteByte('\n')
		default:
			if text != "" {
				current.WriteString(text)
				current.WriteByte('\n')
			}
		}
	})
	flush()

	if len(pages) == 0 {
		if text := NormalizeText(article.TextContent); text != "" {
			pages = append(pages, text)
		}
	}

	doc := &Document{
		Filename: filepath.Base(path),
		Title:    NormalizeText(article.Title),
		Pages:    pages,
	}
	if len(entries) > 0 {
		doc.Outline = &models.Outline{Title: doc.Title, Outline: entries}
		doc.OutlineFrom = OutlineEmbedded
	}
	return doc, nil
}
