// Package ranking combines cheap keyword scores with a bounded number of
// model calls to produce the final section ordering and excerpt selection.
// A run moves one way through the stages: keyword-scored, optionally
// model-refined for the promoted top slice, stably ranked, truncated, then
// reduced to subsection excerpts. Nothing is revisited once a stage is done.
package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dtnitsch/llm-doc-ranker/models"
	"github.com/dtnitsch/llm-doc-ranker/pkg/llm"
	"github.com/dtnitsch/llm-doc-ranker/pkg/signals"
)

// Engine runs the scoring and selection stages for one run.
type Engine struct {
	oracle *llm.Oracle
	logger *slog.Logger
	params models.Params
}

func NewEngine(oracle *llm.Oracle, logger *slog.Logger, params models.Params) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{oracle: oracle, logger: logger, params: params}
}

// Input is everything ranking needs after extraction has finished.
type Input struct {
	Sections   []models.Section
	Vocabulary *signals.Vocabulary
	Persona    string
	Job        string
}

// Result is the ranked, truncated outcome of a run.
type Result struct {
	Ranked      []models.ScoredSection // final order, at most MaxSections
	Scored      []models.ScoredSection // every section in final order, untruncated
	Subsections []models.Subsection    // at most MaxSubsections, rank order
	TotalScored int                    // sections scored before truncation
	ModelScored int                    // sections that received a model score
}

// Rank scores every section, refines the promoted top slice with one model
// call, orders the result and derives subsection excerpts.
func (e *Engine) Rank(ctx context.Context, in Input) Result {
	scored := signals.NewEngine(in.Vocabulary, e.params.Scoring).ScoreAll(in.Sections)

	refined, modelScored := e.refinePromoted(ctx, scored, in.Persona, in.Job)

	ordered := stableRank(refined)
	ranked := ordered
	if max := e.params.Selection.MaxSections; len(ranked) > max {
		ranked = ranked[:max]
	}

	subsections := e.selectSubsections(ctx, ranked, in.Persona, in.Job)

	return Result{
		Ranked:      ranked,
		Scored:      ordered,
		Subsections: subsections,
		TotalScored: len(scored),
		ModelScored: modelScored,
	}
}

// refinePromoted sends the titles of the top-K keyword-scored sections to
// the model in a single batched call and averages the model's score into the
// keyword score. Sections outside the top K, and promoted sections past the
// batch item cap, keep their keyword score: the cap is deliberate
// load-shedding, bounding prompt size whatever the corpus looks like. When
// the call falls back the run simply stays keyword-only.
func (e *Engine) refinePromoted(ctx context.Context, scored []models.ScoredSection, persona, job string) ([]models.ScoredSection, int) {
	if len(scored) == 0 {
		return scored, 0
	}

	promoted := promotedIndexes(scored, e.params.Selection.PromoteTopK)
	if len(promoted) > e.params.Selection.MaxBatchItems {
		promoted = promoted[:e.params.Selection.MaxBatchItems]
	}
	if len(promoted) == 0 {
		return scored, 0
	}

	titles := make([]string, len(promoted))
	for i, idx := range promoted {
		titles[i] = scored[idx].SectionTitle
	}

	out := e.oracle.Complete(ctx, llm.Request{
		Purpose:     "batch_score",
		Prompt:      batchScorePrompt(titles, persona, job, e.params.Scoring),
		MaxTokens:   e.params.Oracle.ScoreMaxTokens,
		Temperature: e.params.Oracle.Temperature,
		Fallback:    "",
	})
	if out.Fallback {
		e.logger.Info("model refinement skipped, keeping keyword scores", "reason", out.Reason)
		return scored, 0
	}

	modelScores := llm.ParseIndexedScores(out.Text, len(promoted))

	refined := make([]models.ScoredSection, len(scored))
	copy(refined, scored)
	for i, idx := range promoted {
		modelScore, ok := modelScores[i+1]
		if !ok {
			modelScore = e.params.Scoring.Neutral()
		}
		modelScore = e.params.Scoring.Clamp(modelScore)

		sec := refined[idx]
		sec.RelevanceScore = e.params.Scoring.Clamp(combineScores(sec.RelevanceScore, modelScore))
		sec.ModelAnalysis = modelAnalysis(modelScore, ok)
		refined[idx] = sec
	}
	return refined, len(promoted)
}

// promotedIndexes returns the positions of the top-k sections by score,
// breaking score ties by extraction order, with the result itself in
// extraction order.
func promotedIndexes(scored []models.ScoredSection, k int) []int {
	if k <= 0 {
		return nil
	}
	idx := make([]int, len(scored))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scored[idx[a]].RelevanceScore > scored[idx[b]].RelevanceScore
	})
	if len(idx) > k {
		idx = idx[:k]
	}
	sort.Ints(idx)
	return idx
}

// combineScores averages keyword and model scores, rounding half up so the
// model can lift a borderline section.
func combineScores(keyword, model int) int {
	return (keyword + model + 1) / 2
}

// modelAnalysis is the free-text annotation attached to promoted sections.
func modelAnalysis(modelScore int, parsed bool) string {
	if !parsed {
		return fmt.Sprintf("model relevance defaulted to %d/10", modelScore)
	}
	return fmt.Sprintf("model relevance %d/10", modelScore)
}

// stableRank orders by score descending; equal scores keep extraction order.
func stableRank(scored []models.ScoredSection) []models.ScoredSection {
	ranked := make([]models.ScoredSection, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})
	return ranked
}

// selectSubsections picks the excerpt-bearing sections from the final
// ranking: first those clearing the score threshold, then backfill in rank
// order if too few clear it. One model call refines all chosen excerpts;
// the raw excerpts stand in wherever the model does not deliver.
func (e *Engine) selectSubsections(ctx context.Context, ranked []models.ScoredSection, persona, job string) []models.Subsection {
	sel := e.params.Selection
	if len(ranked) == 0 || sel.MaxSubsections <= 0 {
		return nil
	}

	var chosen []models.ScoredSection
	for _, sec := range ranked {
		if sec.RelevanceScore >= sel.SubsectionMinScore {
			chosen = append(chosen, sec)
			if len(chosen) == sel.MaxSubsections {
				break
			}
		}
	}
	if len(chosen) < sel.MaxSubsections {
		for _, sec := range ranked {
			if sec.RelevanceScore >= sel.SubsectionMinScore {
				continue // already taken above
			}
			chosen = append(chosen, sec)
			if len(chosen) == sel.MaxSubsections {
				break
			}
		}
	}

	raw := make([]string, len(chosen))
	for i, sec := range chosen {
		raw[i] = rawExcerpt(sec, sel)
	}

	refined := e.refineExcerpts(ctx, raw, persona, job)

	subs := make([]models.Subsection, len(chosen))
	for i, sec := range chosen {
		text := refined[i]
		if text == "" {
			text = raw[i]
		}
		subs[i] = models.Subsection{
			Document:       sec.Document,
			PageNumber:     sec.PageNumber,
			RefinedText:    capRunes(text, sel.RefinedTextCap),
			ImportanceRank: i + 1,
		}
	}
	return subs
}

// refineExcerpts asks the model to rewrite all excerpts for the persona in
// one batched call. The returned slice is index-aligned with the input;
// entries the model skipped, and the whole slice on fallback, are empty.
func (e *Engine) refineExcerpts(ctx context.Context, raw []string, persona, job string) []string {
	refined := make([]string, len(raw))
	if len(raw) == 0 {
		return refined
	}

	out := e.oracle.Complete(ctx, llm.Request{
		Purpose:     "refine_excerpts",
		Prompt:      refineExcerptsPrompt(raw, persona, job),
		MaxTokens:   e.params.Oracle.RefineMaxTokens,
		Temperature: e.params.Oracle.Temperature,
		Fallback:    "",
	})
	if out.Fallback {
		e.logger.Info("excerpt refinement skipped, using raw excerpts", "reason", out.Reason)
		return refined
	}

	for idx, text := range llm.ParseIndexedTexts(out.Text, len(raw)) {
		refined[idx-1] = text
	}
	return refined
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
