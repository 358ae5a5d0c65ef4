// Package detector performs cheap, model-free profiling of document text:
// language identification and a coarse document-kind guess. The kind feeds
// the static fallback vocabulary used when the model cannot supply domain
// terms, so detection must never require a model call.
package detector

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// DocumentProfile contains detection results for one document.
type DocumentProfile struct {
	Language     string  // lowercased language name, "unknown" when undetected
	LanguageConf float64 // 0-1 confidence from the language detector
	Kind         string  // academic, manual, travel, food, business, generic
	KindScore    float64 // 0-10 signal strength behind the kind
}

// Detector profiles documents. Building the language models is relatively
// expensive, so construct once per run and reuse.
type Detector struct {
	languages lingua.LanguageDetector
}

func New() *Detector {
	return &Detector{
		languages: lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English, lingua.Spanish, lingua.French, lingua.German,
				lingua.Italian, lingua.Portuguese, lingua.Dutch,
				lingua.Japanese, lingua.Chinese,
			).
			Build(),
	}
}

// profileSampleLimit bounds how much text detection looks at. Language and
// kind signals saturate long before this.
const profileSampleLimit = 4000

// Profile analyzes a text sample and returns the detected language and kind.
func (d *Detector) Profile(text string) *DocumentProfile {
	sample := capRunes(text, profileSampleLimit)

	profile := &DocumentProfile{
		Language: "unknown",
		Kind:     "generic",
	}
	if strings.TrimSpace(sample) == "" {
		return profile
	}

	if lang, ok := d.languages.DetectLanguageOf(sample); ok {
		profile.Language = strings.ToLower(lang.String())
		profile.LanguageConf = d.languages.ComputeLanguageConfidence(sample, lang)
	}

	profile.Kind, profile.KindScore = detectKind(sample)
	return profile
}

// kindMarkers maps each document kind to the phrases that signal it. Marker
// hits are counted once each; the kind with the most distinct hits wins.
var kindMarkers = map[string][]string{
	"academic": {
		"abstract", "methodology", "et al", "references", "bibliography",
		"hypothesis", "dataset", "empirical", "doi", "peer-review",
	},
	"manual": {
		"click", "select", "button", "dialog", "menu", "toolbar",
		"fillable", "checkbox", "signature", "export", "step 1",
	},
	"travel": {
		"hotel", "itinerary", "restaurant", "museum", "beach",
		"booking", "flight", "nightlife", "sightseeing", "packing",
	},
	"food": {
		"recipe", "ingredients", "teaspoon", "tablespoon", "bake",
		"simmer", "vegetarian", "gluten-free", "serve", "preheat",
	},
	"business": {
		"revenue", "quarterly", "fiscal", "stakeholder", "compliance",
		"audit", "forecast", "headcount", "invoice", "procurement",
	},
}

// detectKind scores every kind by distinct marker hits and returns the best
// one, defaulting to generic when the evidence is thin.
func detectKind(sample string) (string, float64) {
	lower := strings.ToLower(sample)

	bestKind := "generic"
	bestHits := 0
	for _, kind := range []string{"academic", "manual", "travel", "food", "business"} {
		hits := 0
		for _, marker := range kindMarkers[kind] {
			if strings.Contains(lower, marker) {
				hits++
			}
		}
		if hits > bestHits {
			bestKind, bestHits = kind, hits
		}
	}

	// A single stray marker is not enough to leave generic.
	if bestHits < 2 {
		return "generic", float64(bestHits)
	}

	score := 2.0 * float64(bestHits)
	if score > 10 {
		score = 10
	}
	return bestKind, score
}

// fallbackVocabularies are the static domain token sets used when the model
// cannot supply a vocabulary for the persona and job.
var fallbackVocabularies = map[string][]string{
	"academic": {"methodology", "results", "dataset", "benchmark", "evaluation", "literature", "analysis", "findings"},
	"manual":   {"form", "field", "signature", "fillable", "export", "convert", "edit", "tool", "create"},
	"travel":   {"itinerary", "hotel", "restaurant", "museum", "booking", "coastal", "cuisine", "activities", "tips"},
	"food":     {"recipe", "ingredients", "vegetarian", "dinner", "menu", "buffet", "sides", "dish"},
	"business": {"revenue", "growth", "strategy", "quarterly", "compliance", "investment", "performance"},
	"generic":  {"overview", "summary", "guide", "introduction", "key", "important", "tips"},
}

// FallbackVocabulary returns the static vocabulary for a detected kind.
func FallbackVocabulary(kind string) []string {
	if vocab, ok := fallbackVocabularies[kind]; ok {
		return vocab
	}
	return fallbackVocabularies["generic"]
}

// DominantKind picks the most frequent non-generic kind across documents,
// falling back to generic when nothing else shows up.
func DominantKind(kinds []string) string {
	counts := make(map[string]int)
	for _, k := range kinds {
		if k != "" && k != "generic" {
			counts[k]++
		}
	}

	best, bestCount := "generic", 0
	for _, kind := range []string{"academic", "manual", "travel", "food", "business"} {
		if counts[kind] > bestCount {
			best, bestCount = kind, counts[kind]
		}
	}
	return best
}

func capRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
