package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
	sawCtx     context.Context
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	s.sawCtx = ctx
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestEnrich(t *testing.T) {
	stub := &stubGenerator{response: "Structured summary.\n{A, K}\n" + `{"Job Family": "Sales"}`}
	enricher := NewEnricher(stub, 0, 0, zap.NewNop())

	out, err := enricher.Enrich(context.Background(), "Looking for a sales graduate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "{A, K}") {
		t.Fatalf("unexpected enriched text: %s", out)
	}

	if !strings.Contains(stub.lastPrompt, "Looking for a sales graduate") {
		t.Fatalf("expected raw query in prompt")
	}

	// The fixed legend and classification options must always be present.
	for _, want := range []string{
		"A - Ability & Aptitude",
		"S - Simulations",
		"Job Family:",
		"Job Level:",
		"Industry:",
		"Language:",
		"set format (e.g., {A, K, P})",
	} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("prompt is missing %q", want)
		}
	}
}

func TestEnrichEmptyQuery(t *testing.T) {
	enricher := NewEnricher(&stubGenerator{}, 0, 0, zap.NewNop())

	if _, err := enricher.Enrich(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty query")
	}
}

func TestEnrichPropagatesGeneratorError(t *testing.T) {
	wantErr := errors.New("quota exceeded")
	enricher := NewEnricher(&stubGenerator{err: wantErr}, 0, 0, zap.NewNop())

	_, err := enricher.Enrich(context.Background(), "query")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected generator error, got %v", err)
	}
}

func TestEnrichAppliesTimeout(t *testing.T) {
	stub := &stubGenerator{response: "ok"}
	enricher := NewEnricher(stub, time.Minute, 0, zap.NewNop())

	if _, err := enricher.Enrich(context.Background(), "query"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := stub.sawCtx.Deadline(); !ok {
		t.Fatalf("expected a deadline on the generator context")
	}
}
