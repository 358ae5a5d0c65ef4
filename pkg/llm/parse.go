package llm

import (
	"regexp"
	"strconv"
	"strings"
)

// Model responses are parsed with small strict grammars. A non-match is a
// normal, anticipated outcome: callers substitute their per-item defaults
// instead of treating it as an error.

var (
	// Post-label whitespace is [ \t] only: \s would run across the line
	// break and swallow the next line as the value of an empty label.
	personaLineRe = regexp.MustCompile(`(?im)^\s*PERSONA:[ \t]*(\S.*)$`)
	jobLineRe     = regexp.MustCompile(`(?im)^\s*JOB:[ \t]*(\S.*)$`)
	indexedLineRe = regexp.MustCompile(`(?m)^\s*(\d{1,3})\s*[:.)][ \t]*(\S.*)$`)
	digitsRe      = regexp.MustCompile(`^\d{1,2}$`)
	listNumberRe  = regexp.MustCompile(`^\s*(?:[-*]|\d{1,3}[.)])\s*`)
)

// PersonaJob is the typed result of a persona-inference response.
type PersonaJob struct {
	Persona string
	Job     string
}

// ParsePersonaJob matches the two labeled lines the inference prompt asks
// for. Both must be present for the parse to succeed.
func ParsePersonaJob(text string) (PersonaJob, bool) {
	p := personaLineRe.FindStringSubmatch(text)
	j := jobLineRe.FindStringSubmatch(text)
	if p == nil || j == nil {
		return PersonaJob{}, false
	}
	return PersonaJob{
		Persona: strings.TrimSpace(p[1]),
		Job:     strings.TrimSpace(j[1]),
	}, true
}

// ParseIndexedScores extracts "<index>: <digits>" lines for indexes 1..n.
// Indexes missing from the response are simply absent from the map; the
// caller fills its neutral default.
func ParseIndexedScores(text string, n int) map[int]int {
	scores := make(map[int]int)
	for _, m := range indexedLineRe.FindAllStringSubmatch(text, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 1 || idx > n {
			continue
		}
		value := strings.TrimSpace(m[2])
		if !digitsRe.MatchString(value) {
			continue
		}
		score, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		if _, seen := scores[idx]; !seen {
			scores[idx] = score
		}
	}
	return scores
}

// ParseIndexedTexts extracts "<index>: <free text>" lines for indexes 1..n,
// used by the batched excerpt-refinement call.
func ParseIndexedTexts(text string, n int) map[int]string {
	texts := make(map[int]string)
	for _, m := range indexedLineRe.FindAllStringSubmatch(text, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 1 || idx > n {
			continue
		}
		value := strings.TrimSpace(m[2])
		if value == "" {
			continue
		}
		if _, seen := texts[idx]; !seen {
			texts[idx] = value
		}
	}
	return texts
}

// ParseTermList turns a vocabulary response (comma-, semicolon- or
// newline-separated, possibly bulleted or numbered) into at most max
// lowercased terms.
func ParseTermList(text string, max int) []string {
	var terms []string
	seen := make(map[string]struct{})

	for _, chunk := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	}) {
		term := listNumberRe.ReplaceAllString(chunk, "")
		term = strings.Trim(strings.TrimSpace(term), `"'.`)
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || len(term) > 40 {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
		if max > 0 && len(terms) >= max {
			break
		}
	}
	return terms
}
