package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/llm-doc-ranker/models"
)

// readText loads plain text or markdown. Form feeds split pages; markdown
// ATX headings ("#", "##", ...) become outline entries on their page.
func readText(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var (
		pages   []string
		entries []models.OutlineEntry
	)
	for _, chunk := range strings.Split(string(raw), "\f") {
		text := NormalizeText(chunk)
		if text == "" {
			continue
		}
		pageNr := len(pages) + 1
		for _, line := range strings.Split(text, "\n") {
			if depth, title := markdownHeading(line); depth > 0 {
				entries = append(entries, models.OutlineEntry{
					Text:  title,
					Page:  pageNr,
					Level: fmt.Sprintf("H%d", depth),
				})
			}
		}
		pages = append(pages, text)
	}

	doc := &Document{
		Filename: filepath.Base(path),
		Pages:    pages,
	}
	if len(entries) > 0 {
		doc.Outline = &models.Outline{Outline: entries}
		doc.OutlineFrom = OutlineEmbedded
		doc.Title = entries[0].Text
	}
	return doc, nil
}

// markdownHeading parses an ATX heading line, returning depth 0 when the
// line is not one.
func markdownHeading(line string) (int, string) {
	depth := 0
	for depth < len(line) && line[depth] == '#' {
		depth++
	}
	if depth == 0 || depth > 6 || depth >= len(line) || line[depth] != ' ' {
		return 0, ""
	}
	title := strings.TrimSpace(line[depth+1:])
	if title == "" {
		return 0, ""
	}
	return depth, title
}
