package models

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DocumentRef names one input document inside a run spec.
type DocumentRef struct {
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

// Persona describes who the analysis is for.
type Persona struct {
	Role string `json:"role"`
}

// JobToBeDone describes what the persona is trying to accomplish.
type JobToBeDone struct {
	Task string `json:"task"`
}

// RunSpec is the optional JSON run configuration. When both the persona role
// and the job task are present the run is fully configured; otherwise the
// pipeline falls back to inferring them from document content.
type RunSpec struct {
	Documents   []DocumentRef `json:"documents,omitempty"`
	Persona     Persona       `json:"persona"`
	JobToBeDone JobToBeDone   `json:"job_to_be_done"`
}

// Configured reports whether the run spec carries a usable persona and job.
func (r *RunSpec) Configured() bool {
	return strings.TrimSpace(r.Persona.Role) != "" && strings.TrimSpace(r.JobToBeDone.Task) != ""
}

// DocumentFilenames returns the filenames listed in the run spec, in order,
// with blanks dropped.
func (r *RunSpec) DocumentFilenames() []string {
	var names []string
	for _, d := range r.Documents {
		if strings.TrimSpace(d.Filename) != "" {
			names = append(names, d.Filename)
		}
	}
	return names
}

// LoadRunSpec reads and parses a run spec JSON file.
func LoadRunSpec(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run spec %s: %w", path, err)
	}
	var spec RunSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing run spec %s: %w", path, err)
	}
	return &spec, nil
}
