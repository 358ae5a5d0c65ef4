package ranking

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/llm-doc-ranker/models"
)

// Prompt builders. Every prompt pins the exact response grammar the strict
// parsers in pkg/llm expect, and callers pass already-truncated material so
// prompt size stays bounded regardless of corpus size.

func batchScorePrompt(titles []string, persona, job string, scoring models.ScoringParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are helping a %s who needs to: %s\n\n", persona, job)
	fmt.Fprintf(&b, "Rate how relevant each document section title below is to that goal, on a scale of %d to %d.\n\n",
		scoring.MinScore, scoring.MaxScore)
	for i, title := range titles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
	}
	b.WriteString("\nAnswer with exactly one line per item, in the form:\n<item number>: <score>\nNo other text.")
	return b.String()
}

func refineExcerptsPrompt(excerpts []string, persona, job string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are helping a %s who needs to: %s\n\n", persona, job)
	b.WriteString("Rewrite each passage below as a single concise sentence highlighting what matters for that goal.\n\n")
	for i, excerpt := range excerpts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, excerpt)
	}
	b.WriteString("\nAnswer with exactly one line per item, in the form:\n<item number>: <rewritten sentence>\nNo other text.")
	return b.String()
}

func inferPersonaPrompt(sample string) string {
	var b strings.Builder
	b.WriteString("Below is material sampled from a set of documents.\n\n")
	b.WriteString(sample)
	b.WriteString("\n\nWho is most likely analyzing these documents, and what are they trying to accomplish?\n")
	b.WriteString("Answer with exactly two lines:\nPERSONA: <professional role>\nJOB: <concrete task>")
	return b.String()
}

func domainVocabPrompt(persona, job string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A %s needs to: %s\n\n", persona, job)
	b.WriteString("List up to 12 single words or short terms that would appear in document sections relevant to that goal.\n")
	b.WriteString("Answer with a comma-separated list only.")
	return b.String()
}
