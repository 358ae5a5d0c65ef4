package manifest

// RunManifest represents the structure of the run manifest JSON file.
// It provides a lightweight overview of a run's input documents, their
// extraction status, and top keywords without requiring tools to open
// the history database.
type RunManifest struct {
	GeneratedAt       string       `json:"generated_at"`
	Persona           string       `json:"persona"`
	Job               string       `json:"job"`
	PersonaMode       string       `json:"persona_mode"`
	ResultPath        string       `json:"result_path"`
	TotalDocuments    int          `json:"total_documents"`
	Extracted         int          `json:"extracted"`
	Placeholders      int          `json:"placeholders"`
	TotalSections     int          `json:"total_sections"`
	ModelCalls        int          `json:"model_calls"`
	AggregateKeywords []string     `json:"aggregate_keywords,omitempty"`
	Documents         []DocSummary `json:"documents"`
}

// DocSummary represents summary information for a single input document.
// Includes extraction status, structure counts, and top keywords.
type DocSummary struct {
	Filename     string   `json:"filename"`
	Status       string   `json:"status"` // "ok" or "placeholder"
	ErrorMessage string   `json:"error_message,omitempty"`
	Pages        int      `json:"pages,omitempty"`
	Sections     int      `json:"sections,omitempty"`
	OutlineFrom  string   `json:"outline_from,omitempty"`
	Language     string   `json:"language,omitempty"`
	Kind         string   `json:"kind,omitempty"`
	TopKeywords  []string `json:"top_keywords,omitempty"`
}
