// Package signals scores sections by weighted lexical overlap with the
// persona and job token sets. Scoring is deterministic and model-free: the
// optional domain vocabulary is fetched once elsewhere and passed in as
// plain tokens, so the same inputs always produce the same scores.
package signals

import (
	"strings"

	"github.com/dtnitsch/llm-doc-ranker/models"
)

// Vocabulary is the read-only token material a run scores against.
type Vocabulary struct {
	personaJob map[string]struct{}
	domain     map[string]struct{}
}

// NewVocabulary builds the token sets from raw persona and job strings plus
// an optional domain term list. Tokens are case-folded and whitespace-split,
// no stemming.
func NewVocabulary(persona, job string, domainTerms []string) *Vocabulary {
	v := &Vocabulary{
		personaJob: make(map[string]struct{}),
		domain:     make(map[string]struct{}),
	}
	for _, tok := range Tokenize(persona) {
		v.personaJob[tok] = struct{}{}
	}
	for _, tok := range Tokenize(job) {
		v.personaJob[tok] = struct{}{}
	}
	for _, term := range domainTerms {
		for _, tok := range Tokenize(term) {
			v.domain[tok] = struct{}{}
		}
	}
	return v
}

// DomainTermCount reports how many domain tokens are active.
func (v *Vocabulary) DomainTermCount() int {
	return len(v.domain)
}

// Tokenize case-folds and splits on whitespace.
func Tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// tokenSet deduplicates the tokens of a string.
func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(s) {
		set[tok] = struct{}{}
	}
	return set
}

// Engine scores sections against one vocabulary. Construct once per run;
// the engine itself is stateless beyond its read-only inputs.
type Engine struct {
	vocab  *Vocabulary
	params models.ScoringParams
}

func NewEngine(vocab *Vocabulary, params models.ScoringParams) *Engine {
	return &Engine{vocab: vocab, params: params}
}

// Score computes the keyword relevance of one section:
// base + title overlap + content-prefix overlap + domain overlap + level
// bonus, clamped to the configured range. Distinct tokens count once.
func (e *Engine) Score(sec models.Section) int {
	title := tokenSet(sec.SectionTitle)
	prefix := tokenSet(capRunes(sec.Content, e.params.ContentPrefix))

	score := e.params.Base
	score += e.params.TitleWeight * overlap(title, e.vocab.personaJob)
	score += e.params.ContentWeight * overlap(prefix, e.vocab.personaJob)
	if len(e.vocab.domain) > 0 {
		score += e.params.DomainWeight * (overlap(title, e.vocab.domain) + overlap(prefix, e.vocab.domain))
	}
	score += e.params.LevelBonus(sec.Level)

	return e.params.Clamp(score)
}

// ScoreAll annotates every section with its keyword score, preserving the
// extraction order the ranking tie-break depends on.
func (e *Engine) ScoreAll(secs []models.Section) []models.ScoredSection {
	scored := make([]models.ScoredSection, 0, len(secs))
	for _, sec := range secs {
		scored = append(scored, models.ScoredSection{
			Section:        sec,
			RelevanceScore: e.Score(sec),
		})
	}
	return scored
}

func overlap(tokens, vocab map[string]struct{}) int {
	n := 0
	for tok := range tokens {
		if _, ok := vocab[tok]; ok {
			n++
		}
	}
	return n
}

func capRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
