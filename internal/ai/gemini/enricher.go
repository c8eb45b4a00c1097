package gemini

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/talentsift/shl-recommender/internal/logger"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxLogLength = 200
)

// Enricher rewrites raw job description queries into structured summaries
// using Gemini. Each call is a single attempt with a bounded timeout; callers
// fall back to the raw query when it fails.
type Enricher struct {
	generator contentGenerator
	timeout   time.Duration
	maxLogLen int
	logger    *zap.Logger
}

func NewEnricher(generator contentGenerator, timeout time.Duration, maxLogLength int, log *zap.Logger) *Enricher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Enricher{
		generator: generator,
		timeout:   timeout,
		maxLogLen: maxLogLength,
		logger:    log,
	}
}

// Enrich sends the raw query wrapped in the instruction template to Gemini
// and returns the structured-summary response.
func (e *Enricher) Enrich(ctx context.Context, rawQuery string) (string, error) {
	rawQuery = strings.TrimSpace(rawQuery)
	if rawQuery == "" {
		return "", errors.New("raw query must not be empty")
	}

	prompt := buildPrompt(rawQuery)

	e.logger.Debug("gemini enrichment request",
		zap.String("model", e.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	e.logger.Debug("gemini enrichment response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	return strings.TrimSpace(raw), nil
}

func buildPrompt(rawQuery string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job Description:\n{{JOB_DESCRIPTION}}\n\nRewrite it into a structured summary."
	}
	return strings.ReplaceAll(template, "{{JOB_DESCRIPTION}}", rawQuery)
}
