// Package models defines the value types that flow through the analysis pipeline.
package models

// Section is one contiguous, titled span of a source document. It is the
// atomic unit of ranking. Sections are created once by the extractor and
// never mutated; scoring stages produce new values instead.
type Section struct {
	Document     string `json:"document" yaml:"document"`
	PageNumber   int    `json:"page_number" yaml:"page_number"` // 1-based
	SectionTitle string `json:"section_title" yaml:"section_title"`
	Level        string `json:"level" yaml:"level"` // H1, H2, H3; deepest when unknown
	Content      string `json:"content" yaml:"content"`
}

// ScoredSection is a Section plus the relevance annotations attached during
// scoring. ModelAnalysis is set only for sections that were promoted to the
// model-refinement pass.
type ScoredSection struct {
	Section        `yaml:",inline"`
	RelevanceScore int    `json:"relevance_score" yaml:"relevance_score"`
	ModelAnalysis  string `json:"model_analysis,omitempty" yaml:"model_analysis,omitempty"`
}

// Subsection is a short refined or extracted passage attached to a
// top-ranked section for presentation.
type Subsection struct {
	Document       string `json:"document" yaml:"document"`
	PageNumber     int    `json:"page_number" yaml:"page_number"`
	RefinedText    string `json:"refined_text" yaml:"refined_text"`
	ImportanceRank int    `json:"importance_rank" yaml:"importance_rank"`
}
