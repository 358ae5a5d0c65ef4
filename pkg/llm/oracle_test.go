package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dtnitsch/llm-doc-ranker/models"
	"github.com/dtnitsch/llm-doc-ranker/pkg/caching"
)

// fakeGenerator counts calls and returns a canned response or error.
type fakeGenerator struct {
	calls     int
	maxTokens []int
	response  string
	err       error
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, maxTokens int, _ float64, _ []string) (string, error) {
	f.calls++
	f.maxTokens = append(f.maxTokens, maxTokens)
	return f.response, f.err
}

func oracleParams() models.OracleParams {
	return models.DefaultParams().Oracle
}

func TestOracleComplete_Success(t *testing.T) {
	gen := &fakeGenerator{response: "  model says hi  "}
	oracle := NewOracle(gen, nil, nil, oracleParams())

	out := oracle.Complete(context.Background(), Request{
		Purpose:  "test",
		Prompt:   "hello",
		Fallback: "fb",
	})

	if out.Fallback {
		t.Fatalf("Complete() fell back (%s), want success", out.Reason)
	}
	if out.Text != "model says hi" {
		t.Errorf("Text = %q, want trimmed model output", out.Text)
	}
	if oracle.CallsUsed() != 1 {
		t.Errorf("CallsUsed() = %d, want 1", oracle.CallsUsed())
	}
}

func TestOracleComplete_BudgetExhausted(t *testing.T) {
	params := oracleParams()
	params.CallBudget = 2

	gen := &fakeGenerator{response: "ok"}
	oracle := NewOracle(gen, nil, nil, params)

	for i := 0; i < 2; i++ {
		if out := oracle.Complete(context.Background(), Request{Purpose: "p", Fallback: "fb"}); out.Fallback {
			t.Fatalf("call %d fell back unexpectedly", i)
		}
	}

	out := oracle.Complete(context.Background(), Request{Purpose: "p", Fallback: "fb"})
	if !out.Fallback || out.Reason != ReasonBudget {
		t.Errorf("third call = %+v, want budget fallback", out)
	}
	if out.Text != "fb" {
		t.Errorf("Text = %q, want the caller's fallback", out.Text)
	}
	if gen.calls != 2 {
		t.Errorf("generator called %d times, want 2", gen.calls)
	}
}

func TestOracleComplete_GeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection refused")}
	oracle := NewOracle(gen, nil, nil, oracleParams())

	out := oracle.Complete(context.Background(), Request{Purpose: "p", Fallback: "fb"})
	if !out.Fallback || out.Reason != ReasonError {
		t.Errorf("outcome = %+v, want error fallback", out)
	}

	// The failed attempt still consumed budget: no retries.
	if oracle.CallsUsed() != 1 {
		t.Errorf("CallsUsed() = %d, want 1", oracle.CallsUsed())
	}
}

func TestOracleComplete_UnavailableModel(t *testing.T) {
	oracle := NewOracle(Unavailable{}, nil, nil, oracleParams())

	out := oracle.Complete(context.Background(), Request{Purpose: "p", Fallback: "fb"})
	if !out.Fallback || out.Reason != ReasonUnavailable {
		t.Errorf("outcome = %+v, want unavailable fallback", out)
	}
	if out.Text != "fb" {
		t.Errorf("Text = %q, want fallback", out.Text)
	}
}

func TestOracleComplete_EmptyResponse(t *testing.T) {
	gen := &fakeGenerator{response: "   \n  "}
	oracle := NewOracle(gen, nil, nil, oracleParams())

	out := oracle.Complete(context.Background(), Request{Purpose: "p", Fallback: "fb"})
	if !out.Fallback || out.Reason != ReasonEmpty {
		t.Errorf("outcome = %+v, want empty-response fallback", out)
	}
}

func TestOracleComplete_TokenCeiling(t *testing.T) {
	params := oracleParams()
	gen := &fakeGenerator{response: "ok"}
	oracle := NewOracle(gen, nil, nil, params)

	oracle.Complete(context.Background(), Request{MaxTokens: 1 << 20, Fallback: "fb"})
	oracle.Complete(context.Background(), Request{MaxTokens: 0, Fallback: "fb"})
	oracle.Complete(context.Background(), Request{MaxTokens: 50, Fallback: "fb"})

	ceiling := params.RefineMaxTokens // largest of the configured ceilings
	if gen.maxTokens[0] != ceiling {
		t.Errorf("oversized request used %d tokens, want clamped to %d", gen.maxTokens[0], ceiling)
	}
	if gen.maxTokens[1] != ceiling {
		t.Errorf("zero request used %d tokens, want default ceiling %d", gen.maxTokens[1], ceiling)
	}
	if gen.maxTokens[2] != 50 {
		t.Errorf("in-range request used %d tokens, want 50", gen.maxTokens[2])
	}
}

func TestOracleComplete_CacheHitSpendsNoBudget(t *testing.T) {
	cache, err := caching.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	gen := &fakeGenerator{response: "cached answer"}
	oracle := NewOracle(gen, cache, nil, oracleParams())

	req := Request{Purpose: "p", Prompt: "same prompt", Fallback: "fb"}

	first := oracle.Complete(context.Background(), req)
	if first.Cached || first.Fallback {
		t.Fatalf("first call = %+v, want fresh success", first)
	}

	second := oracle.Complete(context.Background(), req)
	if !second.Cached {
		t.Fatalf("second call = %+v, want cache hit", second)
	}
	if second.Text != "cached answer" {
		t.Errorf("cached Text = %q, want %q", second.Text, "cached answer")
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
	if oracle.CallsUsed() != 1 {
		t.Errorf("CallsUsed() = %d, want 1 (cache hits are free)", oracle.CallsUsed())
	}
}
