// Package sections turns a read document into the flat, ordered section list
// the scoring stages consume. Extraction is a pure function of the document
// and its outline; it makes no model calls and never fails, falling back to
// page-per-section splitting or a placeholder record instead.
package sections

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/llm-doc-ranker/models"
	"github.com/dtnitsch/llm-doc-ranker/pkg/document"
)

// FromDocument extracts the ordered sections of one document. With an
// outline, each entry spans from its page to the page before the next entry
// at the same or a shallower level (the whole tail of the document for the
// last one). Without an outline, every non-empty page becomes one section
// with a synthesized title.
func FromDocument(doc *document.Document, params models.ExtractParams) []models.Section {
	var secs []models.Section
	if doc.Outline != nil {
		secs = fromOutline(doc, params)
	}
	if secs == nil {
		secs = fromPages(doc, params)
	}
	if secs == nil {
		// Zero readable pages. Downstream stages still expect at least one
		// record per requested document.
		return []models.Section{Placeholder(doc.Filename)}
	}
	return secs
}

// Placeholder is the sentinel section recorded for a document that could not
// be read at all.
func Placeholder(filename string) models.Section {
	return models.Section{
		Document:     filename,
		PageNumber:   1,
		SectionTitle: "Unable to process " + filename,
		Level:        deepestLevel(models.DefaultParams().Extract.MaxDepth),
	}
}

func fromOutline(doc *document.Document, params models.ExtractParams) []models.Section {
	type entry struct {
		models.OutlineEntry
		depth int
	}

	var entries []entry
	for _, e := range doc.Outline.Outline {
		text := strings.TrimSpace(e.Text)
		if text == "" || e.Page < 1 || e.Page > doc.PageCount() {
			continue
		}
		depth := models.LevelDepth(e.Level)
		if depth == 0 {
			depth = params.MaxDepth // level absent: treat as deepest
		}
		if depth > params.MaxDepth {
			continue
		}
		e.Text = text
		entries = append(entries, entry{OutlineEntry: e, depth: depth})
	}
	if len(entries) == 0 {
		return nil
	}

	secs := make([]models.Section, 0, len(entries))
	for i, e := range entries {
		end := doc.PageCount()
		for j := i + 1; j < len(entries); j++ {
			if params.SplitSubLevels || entries[j].depth <= e.depth {
				end = entries[j].Page - 1
				break
			}
		}
		if end < e.Page {
			// The neighbor starts on the same page; both sections share it.
			end = e.Page
		}

		var content strings.Builder
		for p := e.Page; p <= end; p++ {
			if text := doc.PageText(p); text != "" {
				if content.Len() > 0 {
					content.WriteByte('\n')
				}
				content.WriteString(text)
			}
		}

		secs = append(secs, models.Section{
			Document:     doc.Filename,
			PageNumber:   e.Page,
			SectionTitle: e.Text,
			Level:        fmt.Sprintf("H%d", e.depth),
			Content:      capText(content.String(), params.ContentCap),
		})
	}
	return secs
}

func fromPages(doc *document.Document, params models.ExtractParams) []models.Section {
	var secs []models.Section
	for pageNr := 1; pageNr <= doc.PageCount(); pageNr++ {
		text := doc.PageText(pageNr)
		if text == "" {
			continue
		}
		secs = append(secs, models.Section{
			Document:     doc.Filename,
			PageNumber:   pageNr,
			SectionTitle: synthesizeTitle(text, pageNr, params),
			Level:        deepestLevel(params.MaxDepth),
			Content:      capText(text, params.ContentCap),
		})
	}
	return secs
}

// synthesizeTitle scans the first few non-empty lines for one of plausible
// title length: long enough not to be a fragment, short enough not to be a
// wrapped paragraph.
func synthesizeTitle(text string, pageNr int, params models.ExtractParams) string {
	scanned := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if n := len([]rune(line)); n >= params.TitleMinLen && n <= params.TitleMaxLen {
			return line
		}
		scanned++
		if scanned >= params.TitleScanLines {
			break
		}
	}
	return fmt.Sprintf("Page %d", pageNr)
}

func deepestLevel(maxDepth int) string {
	if maxDepth < 1 {
		maxDepth = 1
	}
	return fmt.Sprintf("H%d", maxDepth)
}

// capText truncates to at most n runes.
func capText(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
