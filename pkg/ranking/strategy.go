package ranking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dtnitsch/llm-doc-ranker/models"
)

// Strategy filters scored sections when inspecting stored runs, e.g.
// "score:>=7,level:H1|H2,doc:report.pdf".
type Strategy struct {
	MinScore int
	Levels   map[string]struct{}
	Docs     map[string]struct{}
}

func ParseStrategy(strategyStr string) (*Strategy, error) {
	if strategyStr == "" {
		return &Strategy{}, nil // No-op strategy
	}

	strategy := &Strategy{
		Levels: make(map[string]struct{}),
		Docs:   make(map[string]struct{}),
	}

	parts := strings.Split(strategyStr, ",")
	for _, part := range parts {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid strategy part: %s", part)
		}
		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])

		switch key {
		case "score":
			if strings.HasPrefix(value, ">=") {
				n, err := strconv.Atoi(strings.TrimSpace(value[2:]))
				if err != nil {
					return nil, fmt.Errorf("invalid score value: %s", value)
				}
				strategy.MinScore = n
			} else {
				return nil, fmt.Errorf("unsupported score operator in: %s", value)
			}
		case "level":
			for _, l := range strings.Split(value, "|") {
				strategy.Levels[strings.ToUpper(strings.TrimSpace(l))] = struct{}{}
			}
		case "doc":
			for _, d := range strings.Split(value, "|") {
				strategy.Docs[strings.TrimSpace(d)] = struct{}{}
			}
		default:
			return nil, fmt.Errorf("unknown strategy key: %s", key)
		}
	}

	return strategy, nil
}

// FilterSections returns the sections passing every strategy condition,
// preserving their order. A nil strategy passes everything through.
func FilterSections(secs []models.ScoredSection, strategy *Strategy) []models.ScoredSection {
	if strategy == nil {
		return secs // No filtering
	}

	var filtered []models.ScoredSection
	for _, sec := range secs {
		if sec.RelevanceScore < strategy.MinScore {
			continue
		}
		if len(strategy.Levels) > 0 {
			if _, ok := strategy.Levels[strings.ToUpper(sec.Level)]; !ok {
				continue
			}
		}
		if len(strategy.Docs) > 0 {
			if _, ok := strategy.Docs[sec.Document]; !ok {
				continue
			}
		}
		filtered = append(filtered, sec)
	}
	return filtered
}
