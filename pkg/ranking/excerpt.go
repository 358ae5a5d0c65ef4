package ranking

import (
	"strings"

	"github.com/dtnitsch/llm-doc-ranker/models"
)

// rawExcerpt derives the presentation text for a section without any model
// help: the first content line of substantial length, else a prefix of the
// whole content with line breaks made visible. Sections with no content at
// all (extraction placeholders) fall back to their title.
func rawExcerpt(sec models.ScoredSection, sel models.SelectionParams) string {
	for _, line := range strings.Split(sec.Content, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) >= sel.ExcerptMinLineLen {
			return line
		}
	}

	prefix := strings.TrimSpace(capRunes(sec.Content, sel.ExcerptPrefixLen))
	if prefix == "" {
		return sec.SectionTitle
	}
	return strings.Join(strings.Split(prefix, "\n"), " | ")
}
