package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/llm-doc-ranker/models"
	"github.com/dtnitsch/llm-doc-ranker/pkg/storage"
)

func TestGenerateSummary(t *testing.T) {
	resultPath := filepath.Join(t.TempDir(), "analysis.json")
	stats := RunStats{
		Persona:       "Travel Planner",
		Job:           "Plan a 4-day trip",
		PersonaMode:   "configured",
		ResultPath:    resultPath,
		TotalSections: 42,
		ModelCalls:    3,
	}
	docs := []DocResult{
		{
			Info: models.DocumentInfo{
				Filename:    "cities.pdf",
				Pages:       12,
				Sections:    20,
				OutlineFrom: "embedded",
				Language:    "en",
				Kind:        "guide",
			},
			WordCounts: map[string]int{"beach": 9, "museum": 4},
		},
		{
			Info: models.DocumentInfo{
				Filename: "broken.pdf",
				Error:    "open broken.pdf: malformed xref",
			},
		},
	}
	aggregate := map[string]int{"beach": 9, "museum": 4, "coast": 2}

	path, err := GenerateSummary(stats, docs, aggregate, &storage.Storage{})
	if err != nil {
		t.Fatalf("GenerateSummary() error = %v", err)
	}
	want := filepath.Join(filepath.Dir(resultPath), "analysis.manifest.json")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var m RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if m.TotalDocuments != 2 || m.Extracted != 1 || m.Placeholders != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", m.TotalDocuments, m.Extracted, m.Placeholders)
	}
	if m.Persona != "Travel Planner" || m.PersonaMode != "configured" {
		t.Errorf("persona = %q mode = %q", m.Persona, m.PersonaMode)
	}
	if len(m.AggregateKeywords) != 3 || m.AggregateKeywords[0] != "beach:9" {
		t.Errorf("AggregateKeywords = %v", m.AggregateKeywords)
	}

	if len(m.Documents) != 2 {
		t.Fatalf("len(Documents) = %d, want 2", len(m.Documents))
	}
	ok := m.Documents[0]
	if ok.Status != "ok" || ok.Pages != 12 || ok.Kind != "guide" {
		t.Errorf("Documents[0] = %+v", ok)
	}
	if len(ok.TopKeywords) != 2 || ok.TopKeywords[0] != "beach:9" {
		t.Errorf("TopKeywords = %v", ok.TopKeywords)
	}
	ph := m.Documents[1]
	if ph.Status != "placeholder" || ph.ErrorMessage == "" {
		t.Errorf("Documents[1] = %+v", ph)
	}
	if ph.Pages != 0 || len(ph.TopKeywords) != 0 {
		t.Errorf("placeholder carried extraction fields: %+v", ph)
	}
}

func TestGenerateSummary_EmptyRun(t *testing.T) {
	resultPath := filepath.Join(t.TempDir(), "analysis.json")
	stats := RunStats{
		Persona:     "Researcher",
		Job:         "Document analysis",
		PersonaMode: "fallback",
		ResultPath:  resultPath,
	}

	path, err := GenerateSummary(stats, nil, nil, &storage.Storage{})
	if err != nil {
		t.Fatalf("GenerateSummary() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var m RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m.TotalDocuments != 0 || len(m.Documents) != 0 {
		t.Errorf("manifest = %+v, want empty document list", m)
	}
	if m.GeneratedAt == "" {
		t.Error("GeneratedAt is empty")
	}
}
