// Package report assembles the final run result and writes it to disk. The
// assembly is a pure mapping: every value in the output was computed
// upstream, nothing is derived here beyond field placement.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dtnitsch/llm-doc-ranker/models"
)

// Metadata is the result header. processing_timestamp is an RFC3339 string
// for configured runs and unix seconds otherwise; the two optional counters
// appear only on non-configured runs.
type Metadata struct {
	InputDocuments        []string    `json:"input_documents"`
	Persona               string      `json:"persona"`
	JobToBeDone           string      `json:"job_to_be_done"`
	ProcessingTimestamp   interface{} `json:"processing_timestamp"`
	TotalSectionsAnalyzed *int        `json:"total_sections_analyzed,omitempty"`
	ProcessingTimeSeconds *float64    `json:"processing_time_seconds,omitempty"`
}

// SectionRow is one extracted_sections entry.
type SectionRow struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	PageNumber     int    `json:"page_number"`
	ImportanceRank int    `json:"importance_rank"`
}

// SubsectionRow is one subsection_analysis entry.
type SubsectionRow struct {
	Document    string `json:"document"`
	PageNumber  int    `json:"page_number"`
	RefinedText string `json:"refined_text"`
}

// RunResult is the single JSON document a run writes. The two list shapes
// are fixed for every run, including empty ones: they marshal as [] rather
// than null.
type RunResult struct {
	Metadata           Metadata        `json:"metadata"`
	ExtractedSections  []SectionRow    `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionRow `json:"subsection_analysis"`
}

// RunInfo carries the upstream-computed metadata values into assembly.
type RunInfo struct {
	InputDocuments []string
	Persona        string
	Job            string
	PersonaMode    models.PersonaMode
	Timestamp      time.Time
	TotalSections  int
	Elapsed        time.Duration
}

// Assemble maps the ranked sections and chosen subsections onto the output
// schema. Importance ranks restart at 1 in final ranking order.
func Assemble(info RunInfo, ranked []models.ScoredSection, subsections []models.Subsection) *RunResult {
	result := &RunResult{
		ExtractedSections:  make([]SectionRow, 0, len(ranked)),
		SubsectionAnalysis: make([]SubsectionRow, 0, len(subsections)),
	}

	docs := info.InputDocuments
	if docs == nil {
		docs = []string{}
	}
	result.Metadata = Metadata{
		InputDocuments: docs,
		Persona:        info.Persona,
		JobToBeDone:    info.Job,
	}
	if info.PersonaMode == models.PersonaModeConfigured {
		result.Metadata.ProcessingTimestamp = info.Timestamp.Format(time.RFC3339)
	} else {
		result.Metadata.ProcessingTimestamp = info.Timestamp.Unix()
		total := info.TotalSections
		seconds := info.Elapsed.Seconds()
		result.Metadata.TotalSectionsAnalyzed = &total
		result.Metadata.ProcessingTimeSeconds = &seconds
	}

	for i, sec := range ranked {
		result.ExtractedSections = append(result.ExtractedSections, SectionRow{
			Document:       sec.Document,
			SectionTitle:   sec.SectionTitle,
			PageNumber:     sec.PageNumber,
			ImportanceRank: i + 1,
		})
	}
	for _, sub := range subsections {
		result.SubsectionAnalysis = append(result.SubsectionAnalysis, SubsectionRow{
			Document:    sub.Document,
			PageNumber:  sub.PageNumber,
			RefinedText: sub.RefinedText,
		})
	}
	return result
}

// Write renders the result as indented JSON at path.
func Write(path string, result *RunResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result %s: %w", path, err)
	}
	return nil
}
