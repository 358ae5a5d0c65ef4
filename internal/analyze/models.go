package analyze

import (
	"github.com/dtnitsch/llm-doc-ranker/models"
)

// Job is one document handed to an extraction worker. Index is the
// document's position in the resolved input list; results are reassembled
// in Index order so ranking sees a deterministic section sequence no matter
// how workers interleave.
type Job struct {
	Index int
	Path  string
}

// Result holds the outcome of one extracted document.
type Result struct {
	Index      int
	Info       models.DocumentInfo
	Sections   []models.Section
	WordCounts map[string]int
	Err        error
}
