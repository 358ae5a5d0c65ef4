// Package mapreduce aggregates word-frequency statistics across the sections
// of a run, feeding the corpus keyword summary stored with run history.
package mapreduce

import (
	"github.com/dtnitsch/llm-doc-ranker/models"
	"github.com/dtnitsch/llm-doc-ranker/pkg/analytics"
)

// Map generates a word frequency map for a single section's content.
func Map(content string, a *analytics.Analytics) map[string]int {
	return a.WordFrequency(content)
}

// MapSections runs Map over every section, title included, one intermediate
// map per section.
func MapSections(sections []models.Section, a *analytics.Analytics) []map[string]int {
	intermediate := make([]map[string]int, 0, len(sections))
	for _, s := range sections {
		intermediate = append(intermediate, Map(s.SectionTitle+"\n"+s.Content, a))
	}
	return intermediate
}

// Reduce aggregates a slice of word frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}
