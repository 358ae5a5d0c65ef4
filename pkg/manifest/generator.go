package manifest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dtnitsch/llm-doc-ranker/models"
	"github.com/dtnitsch/llm-doc-ranker/pkg/mapreduce"
	"github.com/dtnitsch/llm-doc-ranker/pkg/storage"
)

// DocResult pairs a document's extraction info with its word counts.
// This is passed from the analyze action to avoid circular dependencies.
type DocResult struct {
	Info       models.DocumentInfo
	WordCounts map[string]int
}

// RunStats carries the run-level fields recorded in the manifest.
type RunStats struct {
	Persona       string
	Job           string
	PersonaMode   string
	ResultPath    string
	TotalSections int
	ModelCalls    int
}

// GenerateSummary creates a run manifest file next to the result file.
// It accepts the run stats, all document results, aggregate keywords, and a
// storage instance. Returns the path to the generated manifest file and any
// error.
func GenerateSummary(stats RunStats, docs []DocResult, aggregateKeywords map[string]int, s *storage.Storage) (string, error) {
	manifest := RunManifest{
		GeneratedAt:       time.Now().Format(time.RFC3339),
		Persona:           stats.Persona,
		Job:               stats.Job,
		PersonaMode:       stats.PersonaMode,
		ResultPath:        stats.ResultPath,
		TotalDocuments:    len(docs),
		TotalSections:     stats.TotalSections,
		ModelCalls:        stats.ModelCalls,
		AggregateKeywords: mapreduce.TopKeywords(aggregateKeywords, 25),
	}

	// Process each document
	for _, doc := range docs {
		summary := DocSummary{
			Filename: doc.Info.Filename,
		}

		if doc.Info.Failed() {
			// Placeholder case
			manifest.Placeholders++
			summary.Status = "placeholder"
			summary.ErrorMessage = doc.Info.Error
		} else {
			// Extracted case
			manifest.Extracted++
			summary.Status = "ok"
			summary.Pages = doc.Info.Pages
			summary.Sections = doc.Info.Sections
			summary.OutlineFrom = doc.Info.OutlineFrom
			summary.Language = doc.Info.Language
			summary.Kind = doc.Info.Kind

			// Add top keywords for this document
			if doc.WordCounts != nil {
				summary.TopKeywords = mapreduce.TopKeywords(doc.WordCounts, 10)
			}
		}

		manifest.Documents = append(manifest.Documents, summary)
	}

	// Save manifest next to the result file
	manifestPath := storage.DerivedPath(stats.ResultPath, "manifest.json")
	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshalling manifest: %w", err)
	}

	if err := s.SaveFile(manifestPath, manifestData); err != nil {
		return "", fmt.Errorf("error saving manifest: %w", err)
	}

	return manifestPath, nil
}
