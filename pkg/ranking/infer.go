package ranking

import (
	"context"
	"strings"

	"github.com/dtnitsch/llm-doc-ranker/models"
	"github.com/dtnitsch/llm-doc-ranker/pkg/detector"
	"github.com/dtnitsch/llm-doc-ranker/pkg/llm"
)

const (
	// FallbackPersona and FallbackJob are used verbatim whenever no persona
	// is configured and inference cannot produce one.
	FallbackPersona = "Researcher"
	FallbackJob     = "Document analysis"

	inferSampleTitles = 8
	inferSampleBodies = 2
	inferSampleRunes  = 150
	maxDomainTerms    = 12
)

// ResolvePersona returns the persona and job driving a run. A configured run
// spec always wins and costs nothing; otherwise one budgeted model call tries
// to infer them from the extracted sections, and the fixed fallback pair
// covers everything else.
func (e *Engine) ResolvePersona(ctx context.Context, spec *models.RunSpec, secs []models.Section) (persona, job string, mode models.PersonaMode) {
	if spec != nil && spec.Configured() {
		return spec.Persona.Role, spec.JobToBeDone.Task, models.PersonaModeConfigured
	}

	sample := sampleForInference(secs)
	if sample == "" {
		e.logger.Warn("no content available for persona inference, using fallback persona")
		return FallbackPersona, FallbackJob, models.PersonaModeFallback
	}

	out := e.oracle.Complete(ctx, llm.Request{
		Purpose:     "infer_persona",
		Prompt:      inferPersonaPrompt(sample),
		MaxTokens:   e.params.Oracle.InferMaxTokens,
		Temperature: e.params.Oracle.Temperature,
	})
	if !out.Fallback {
		if pj, ok := llm.ParsePersonaJob(out.Text); ok {
			e.logger.Info("persona inferred from document content",
				"persona", pj.Persona, "job", pj.Job)
			return pj.Persona, pj.Job, models.PersonaModeInferred
		}
		e.logger.Warn("persona inference response did not parse, using fallback persona")
	}
	return FallbackPersona, FallbackJob, models.PersonaModeFallback
}

// DomainVocabulary expands the persona and job into extra scoring terms.
// The returned source is "model" or "static" for run metadata.
func (e *Engine) DomainVocabulary(ctx context.Context, persona, job, kind string) ([]string, string) {
	out := e.oracle.Complete(ctx, llm.Request{
		Purpose:     "domain_vocab",
		Prompt:      domainVocabPrompt(persona, job),
		MaxTokens:   e.params.Oracle.InferMaxTokens,
		Temperature: e.params.Oracle.Temperature,
	})
	if !out.Fallback {
		if terms := llm.ParseTermList(out.Text, maxDomainTerms); len(terms) > 0 {
			return terms, "model"
		}
		e.logger.Warn("domain vocabulary response did not parse, using static terms")
	}
	return detector.FallbackVocabulary(kind), "static"
}

// sampleForInference condenses the extracted sections into a short prompt
// sample. Section titles carry most of the signal, so they lead, followed by
// a brief content prefix from the opening sections.
func sampleForInference(secs []models.Section) string {
	var b strings.Builder
	titles := 0
	for _, sec := range secs {
		if titles >= inferSampleTitles {
			break
		}
		if strings.TrimSpace(sec.SectionTitle) == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(sec.SectionTitle)
		b.WriteString("\n")
		titles++
	}
	bodies := 0
	for _, sec := range secs {
		if bodies >= inferSampleBodies {
			break
		}
		content := strings.TrimSpace(sec.Content)
		if content == "" {
			continue
		}
		b.WriteString(capRunes(content, inferSampleRunes))
		b.WriteString("\n")
		bodies++
	}
	return strings.TrimSpace(b.String())
}
