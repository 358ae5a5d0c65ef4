package models

// Params gathers every tunable constant in the pipeline into one structure
// so call sites never hard-code magic numbers. Zero values are not usable;
// construct with DefaultParams and override fields as needed.
type Params struct {
	Extract   ExtractParams   `yaml:"extract"`
	Scoring   ScoringParams   `yaml:"scoring"`
	Selection SelectionParams `yaml:"selection"`
	Oracle    OracleParams    `yaml:"oracle"`
}

// ExtractParams bounds section extraction.
type ExtractParams struct {
	// ContentCap is the maximum number of characters of body text kept per
	// section. Text past the cap never influences scoring or output.
	ContentCap int `yaml:"content_cap"`
	// MaxDepth is the deepest heading level represented as a section.
	// Outline entries below it are skipped outright.
	MaxDepth int `yaml:"max_depth"`
	// SplitSubLevels ends a section at the very next outline entry instead
	// of the next entry at the same or a shallower level.
	SplitSubLevels bool `yaml:"split_sub_levels"`
	// Title synthesis for documents without an outline: the first
	// TitleScanLines non-empty lines are searched for a line between
	// TitleMinLen and TitleMaxLen characters.
	TitleScanLines int `yaml:"title_scan_lines"`
	TitleMinLen    int `yaml:"title_min_len"`
	TitleMaxLen    int `yaml:"title_max_len"`
}

// ScoringParams drives the keyword relevance formula:
//
//	score = clamp(Base + TitleWeight*titleHits + ContentWeight*prefixHits + levelBonus, MinScore, MaxScore)
//
// where prefixHits counts matches in the first ContentPrefix characters of
// the section body.
type ScoringParams struct {
	Base          int `yaml:"base"`           // starting score before any boosts
	TitleWeight   int `yaml:"title_weight"`   // per distinct persona/job token found in the title
	ContentWeight int `yaml:"content_weight"` // per distinct token found in the content prefix
	DomainWeight  int `yaml:"domain_weight"`  // per distinct domain-vocabulary token found anywhere
	ContentPrefix int `yaml:"content_prefix"` // characters of content examined
	H1Bonus       int `yaml:"h1_bonus"`
	H2Bonus       int `yaml:"h2_bonus"`
	MinScore      int `yaml:"min_score"`
	MaxScore      int `yaml:"max_score"`
}

// Neutral returns the midpoint default substituted for items the model
// response never scored.
func (p ScoringParams) Neutral() int {
	return (p.MinScore + p.MaxScore) / 2
}

// Clamp bounds a score to the configured range.
func (p ScoringParams) Clamp(score int) int {
	if score < p.MinScore {
		return p.MinScore
	}
	if score > p.MaxScore {
		return p.MaxScore
	}
	return score
}

// LevelBonus returns the heading-depth boost for a section level.
func (p ScoringParams) LevelBonus(level string) int {
	switch LevelDepth(level) {
	case 1:
		return p.H1Bonus
	case 2:
		return p.H2Bonus
	default:
		return 0
	}
}

// SelectionParams drives ranking, truncation and subsection selection.
type SelectionParams struct {
	// PromoteTopK is how many keyword-ranked sections are eligible for the
	// model refinement pass.
	PromoteTopK int `yaml:"promote_top_k"`
	// MaxBatchItems caps how many sections a single model scoring call may
	// carry. Sections past the cap keep their keyword score.
	MaxBatchItems int `yaml:"max_batch_items"`
	// MaxSections is the length of the ranked section list in the result.
	MaxSections int `yaml:"max_sections"`
	// MaxSubsections is the length of the subsection analysis list.
	MaxSubsections int `yaml:"max_subsections"`
	// SubsectionMinScore is the preferred score floor for subsection
	// candidates. When too few sections clear it, lower-scored ones
	// backfill in rank order.
	SubsectionMinScore int `yaml:"subsection_min_score"`
	// ExcerptMinLineLen is the minimum length for a content line to stand
	// alone as an excerpt; shorter leads fall back to a raw prefix.
	ExcerptMinLineLen int `yaml:"excerpt_min_line_len"`
	// ExcerptPrefixLen is the length of that fallback prefix.
	ExcerptPrefixLen int `yaml:"excerpt_prefix_len"`
	// RefinedTextCap bounds the final refined_text, model-written or not.
	RefinedTextCap int `yaml:"refined_text_cap"`
}

// OracleParams bounds model usage for a whole run. The budget counts calls,
// not tokens; every call also carries a per-purpose token ceiling so no
// single response can run away.
type OracleParams struct {
	CallBudget      int     `yaml:"call_budget"`
	Temperature     float64 `yaml:"temperature"`
	InferMaxTokens  int     `yaml:"infer_max_tokens"`
	ScoreMaxTokens  int     `yaml:"score_max_tokens"`
	RefineMaxTokens int     `yaml:"refine_max_tokens"`
}

// DefaultParams returns the tuned defaults. Callers adjust individual
// fields rather than building a Params from scratch.
func DefaultParams() Params {
	return Params{
		Extract: ExtractParams{
			ContentCap:     1500,
			MaxDepth:       3,
			TitleScanLines: 5,
			TitleMinLen:    8,
			TitleMaxLen:    100,
		},
		Scoring: ScoringParams{
			Base:          4,
			TitleWeight:   3,
			ContentWeight: 1,
			DomainWeight:  2,
			ContentPrefix: 200,
			H1Bonus:       2,
			H2Bonus:       1,
			MinScore:      1,
			MaxScore:      10,
		},
		Selection: SelectionParams{
			PromoteTopK:        10,
			MaxBatchItems:      20,
			MaxSections:        10,
			MaxSubsections:     3,
			SubsectionMinScore: 7,
			ExcerptMinLineLen:  50,
			ExcerptPrefixLen:   250,
			RefinedTextCap:     500,
		},
		Oracle: OracleParams{
			CallBudget:      4,
			Temperature:     0.1,
			InferMaxTokens:  120,
			ScoreMaxTokens:  200,
			RefineMaxTokens: 400,
		},
	}
}
