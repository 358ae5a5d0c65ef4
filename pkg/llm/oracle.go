package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dtnitsch/llm-doc-ranker/models"
	"github.com/dtnitsch/llm-doc-ranker/pkg/caching"
)

// Fallback reasons recorded on an Outcome.
const (
	ReasonBudget      = "budget_exhausted"
	ReasonUnavailable = "model_unavailable"
	ReasonError       = "model_error"
	ReasonEmpty       = "empty_response"
)

// Request is one budgeted model call. Fallback is mandatory: the prompt may
// never reach the model at all.
type Request struct {
	Purpose     string // short label for logs and cache keys, e.g. "infer_persona"
	Prompt      string
	MaxTokens   int
	Temperature float64
	Stop        []string
	Fallback    string
}

// Outcome makes fallback substitution a visible branch at the call site:
// Text is either model output or the request's fallback, never an error.
type Outcome struct {
	Text     string
	Fallback bool
	Reason   string // why the fallback was used; empty on success
	Cached   bool   // served from the response cache, no budget spent
}

// Oracle enforces the per-run model budget. It serializes calls because the
// local model is single-instance and compute-bound; concurrent calls would
// only contend.
type Oracle struct {
	mu     sync.Mutex
	gen    Generator
	cache  *caching.Cache // optional
	logger *slog.Logger
	params models.OracleParams

	callsUsed int
	ceiling   int
}

// NewOracle wraps a generator with budget enforcement. cache may be nil.
func NewOracle(gen Generator, cache *caching.Cache, logger *slog.Logger, params models.OracleParams) *Oracle {
	if logger == nil {
		logger = slog.Default()
	}
	ceiling := params.InferMaxTokens
	if params.ScoreMaxTokens > ceiling {
		ceiling = params.ScoreMaxTokens
	}
	if params.RefineMaxTokens > ceiling {
		ceiling = params.RefineMaxTokens
	}
	return &Oracle{
		gen:     gen,
		cache:   cache,
		logger:  logger,
		params:  params,
		ceiling: ceiling,
	}
}

// Complete performs one budgeted call. On any failure (budget exhausted,
// model unavailable, generation error, empty response) it returns the
// request's fallback; it never returns an error. Cached responses do not
// consume budget. A failed attempt does: retrying a slow local model would
// defeat the budget, so one attempt is all a request gets.
func (o *Oracle) Complete(ctx context.Context, req Request) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 || maxTokens > o.ceiling {
		maxTokens = o.ceiling
	}

	var key string
	if o.cache != nil {
		key = caching.Key(req.Purpose, req.Prompt, fmt.Sprint(maxTokens), fmt.Sprint(req.Temperature), strings.Join(req.Stop, "\x00"))
		if data, ok := o.cache.Get(key); ok {
			o.logger.Debug("oracle cache hit", "purpose", req.Purpose)
			return Outcome{Text: string(data), Cached: true}
		}
	}

	if o.callsUsed >= o.params.CallBudget {
		o.logger.Warn("model call budget exhausted, using fallback",
			"purpose", req.Purpose, "budget", o.params.CallBudget)
		return Outcome{Text: req.Fallback, Fallback: true, Reason: ReasonBudget}
	}
	o.callsUsed++

	text, err := o.gen.Generate(ctx, req.Prompt, maxTokens, req.Temperature, req.Stop)
	if err != nil {
		reason := ReasonError
		if errors.Is(err, ErrUnavailable) {
			reason = ReasonUnavailable
		}
		o.logger.Warn("model call failed, using fallback",
			"purpose", req.Purpose, "reason", reason, "error", err)
		return Outcome{Text: req.Fallback, Fallback: true, Reason: reason}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		o.logger.Warn("model returned empty response, using fallback", "purpose", req.Purpose)
		return Outcome{Text: req.Fallback, Fallback: true, Reason: ReasonEmpty}
	}

	if o.cache != nil {
		if err := o.cache.Set(key, []byte(text)); err != nil {
			o.logger.Warn("failed to cache model response", "purpose", req.Purpose, "error", err)
		}
	}

	o.logger.Debug("model call completed", "purpose", req.Purpose, "calls_used", o.callsUsed)
	return Outcome{Text: text}
}

// CallsUsed reports how many budgeted calls have been spent so far.
func (o *Oracle) CallsUsed() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.callsUsed
}

// Budget reports the per-run call limit.
func (o *Oracle) Budget() int {
	return o.params.CallBudget
}
