package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/dtnitsch/llm-doc-ranker/models"
)

// readPDF loads every page's text via the pdfcpu content stream and, when
// the file carries bookmarks, turns them into an embedded outline.
func readPDF(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read %s: %w", filepath.Base(path), err)
	}

	pages := make([]string, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pages[pageNr-1] = extractPageText(ctx, pageNr)
	}

	doc := &Document{
		Filename: filepath.Base(path),
		Pages:    pages,
	}

	// First non-empty line of the first non-empty page stands in for a
	// title until an outline provides a better one.
	for _, page := range pages {
		if line := FirstLine(page); line != "" {
			if len(line) > 200 {
				line = line[:200]
			}
			doc.Title = line
			break
		}
	}

	if _, err := f.Seek(0, io.SeekStart); err == nil {
		if bms, err := api.Bookmarks(f, conf); err == nil {
			if outline := outlineFromBookmarks(bms, ctx.PageCount); outline != nil {
				doc.Outline = outline
				doc.OutlineFrom = OutlineEmbedded
			}
		}
	}

	return doc, nil
}

// extractPageText extracts one page's text from its content stream.
func extractPageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return NormalizeText(textFromContentStream(data))
}

// outlineFromBookmarks flattens the bookmark tree in document order. Nesting
// depth becomes the heading level, capped at H6. Entries pointing outside
// the page range are dropped here so the extractor sees only usable ones.
func outlineFromBookmarks(bms []pdfcpu.Bookmark, pageCount int) *models.Outline {
	var entries []models.OutlineEntry
	var walk func(bms []pdfcpu.Bookmark, depth int)
	walk = func(bms []pdfcpu.Bookmark, depth int) {
		for _, bm := range bms {
			title := strings.TrimSpace(bm.Title)
			if title != "" && bm.PageFrom >= 1 && bm.PageFrom <= pageCount {
				level := depth
				if level > 6 {
					level = 6
				}
				entries = append(entries, models.OutlineEntry{
					Text:  title,
					Page:  bm.PageFrom,
					Level: fmt.Sprintf("H%d", level),
				})
			}
			if len(bm.Kids) > 0 {
				walk(bm.Kids, depth+1)
			}
		}
	}
	walk(bms, 1)
	if len(entries) == 0 {
		return nil
	}
	return &models.Outline{Outline: entries}
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// textFromContentStream parses text-showing operators out of a raw PDF
// content stream. Positioning operators become spaces or line breaks so the
// normalized text keeps its line structure.
func textFromContentStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		// Tj / TJ show text: (text) Tj, [(text) -100 (more)] TJ
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}

		// ' shows text on the next line: (text) '
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if text := decodePDFString(m[1]); text != "" {
					sb.WriteByte('\n')
					sb.WriteString(text)
				}
			}

		// Td / TD reposition within the line flow.
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}

		// T* moves to the start of the next line.
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// decodePDFString handles the basic PDF literal escapes, including octal.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for j := 0; j < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; j++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}
