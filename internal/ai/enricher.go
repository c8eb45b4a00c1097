package ai

import "context"

// Metadata keys the enricher is asked to classify a job description into.
const (
	KeyJobFamily = "Job Family"
	KeyJobLevel  = "Job Level"
	KeyIndustry  = "Industry"
	KeyLanguage  = "Language"
)

// Enricher rewrites a raw job description query into a structured summary via
// a generative text provider. Providers may be slow or unavailable; callers
// are expected to fall back to the raw query when Enrich fails.
type Enricher interface {
	Enrich(ctx context.Context, rawQuery string) (string, error)
}

// EnrichedQuery carries one request's query in raw and enriched form together
// with the structured output extracted from the enriched text.
type EnrichedQuery struct {
	RawText      string
	EnrichedText string
	// TestTypes holds codes from the fixed alphabet, invalid codes dropped.
	TestTypes []string
	// Metadata optionally maps Job Family, Job Level, Industry and Language
	// to free-text values.
	Metadata map[string]string
}
