package models

import "strconv"

// OutlineEntry is one heading in a document outline: the heading text, the
// 1-based page it starts on, and its level ("H1", "H2", ...).
type OutlineEntry struct {
	Text  string `json:"text" yaml:"text"`
	Page  int    `json:"page" yaml:"page"`
	Level string `json:"level" yaml:"level"`
}

// Outline is the parsed structure of a document: its title and the ordered
// list of headings. Entries are kept in source order; the extractor relies
// on that order to delimit section page ranges.
type Outline struct {
	Title   string         `json:"title" yaml:"title"`
	Outline []OutlineEntry `json:"outline" yaml:"outline"`
}

// LevelDepth returns the numeric depth of a heading level string: "H1" is 1,
// "H2" is 2 and so on. Unrecognized levels report 0.
func LevelDepth(level string) int {
	if len(level) < 2 || (level[0] != 'H' && level[0] != 'h') {
		return 0
	}
	n, err := strconv.Atoi(level[1:])
	if err != nil || n < 1 {
		return 0
	}
	return n
}
