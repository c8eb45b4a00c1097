// Package recommender orchestrates the recommendation pipeline: enrich the
// query, extract structured output, embed, then rank against the catalog.
package recommender

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/talentsift/shl-recommender/internal/ai"
	"github.com/talentsift/shl-recommender/internal/catalog"
	"github.com/talentsift/shl-recommender/internal/embeddings"
	"github.com/talentsift/shl-recommender/internal/extract"
	"github.com/talentsift/shl-recommender/internal/ranking"
)

var (
	// ErrEmptyQuery is returned when the caller supplies no usable query text.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrNoCatalog is returned when no catalog snapshot is installed.
	ErrNoCatalog = errors.New("catalog is not loaded")
)

// Request is one recommendation request. Nil TopK and MaxDuration take the
// service defaults; an explicit zero is honored as-is.
type Request struct {
	Query       string
	TopK        *int
	MaxDuration *float64
}

// Recommendation is the public projection of one ranked assessment.
type Recommendation struct {
	URL             string  `json:"url"`
	Name            string  `json:"name"`
	AdaptiveSupport string  `json:"adaptive_support"`
	RemoteSupport   string  `json:"remote_support"`
	Description     string  `json:"description"`
	Duration        string  `json:"duration"`
	DurationMinutes float64 `json:"duration_minutes"`
	TestType        string  `json:"test_type"`
	Score           float64 `json:"score"`
}

// Response is an ordered list of recommended assessments.
type Response struct {
	RecommendedAssessments []Recommendation `json:"recommended_assessments"`
}

// Defaults applied when a request omits optional parameters.
type Defaults struct {
	TopK        int
	MaxDuration float64
}

// Service runs the recommendation pipeline against the active catalog
// snapshot. It is safe for concurrent use.
type Service struct {
	catalog  *catalog.Holder
	embedder embeddings.Embedder
	enricher ai.Enricher // nil disables enrichment
	ranker   *ranking.Ranker
	defaults Defaults
	logger   *zap.Logger
}

func New(holder *catalog.Holder, embedder embeddings.Embedder, enricher ai.Enricher, defaults Defaults, logger *zap.Logger) *Service {
	if defaults.TopK <= 0 {
		defaults.TopK = ranking.DefaultTopK
	}
	if defaults.MaxDuration <= 0 {
		defaults.MaxDuration = ranking.DefaultMaxDuration
	}

	return &Service{
		catalog:  holder,
		embedder: embedder,
		enricher: enricher,
		ranker:   ranking.New(logger),
		defaults: defaults,
		logger:   logger,
	}
}

// Recommend runs the full pipeline for one query. Enrichment failures degrade
// to the raw query; embedding failures abort since there is nothing to rank
// without a query vector.
func (s *Service) Recommend(ctx context.Context, req Request) (*Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	store := s.catalog.Current()
	if store == nil {
		return nil, ErrNoCatalog
	}

	enriched := s.enrich(ctx, query)
	parsed := extract.Parse(enriched)

	if s.enricher != nil && len(parsed.TestTypes) == 0 && len(parsed.Metadata) == 0 {
		s.logger.Warn("no structured output in enriched text, scoring on similarity only")
	}

	queryVec, err := s.embedder.EmbedText(ctx, enriched)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	params := ranking.Params{
		TopK:        s.defaults.TopK,
		MaxDuration: s.defaults.MaxDuration,
	}
	if req.TopK != nil {
		params.TopK = *req.TopK
	}
	if req.MaxDuration != nil {
		params.MaxDuration = *req.MaxDuration
	}

	enrichedQuery := &ai.EnrichedQuery{
		RawText:      query,
		EnrichedText: enriched,
		TestTypes:    parsed.TestTypes,
		Metadata:     parsed.Metadata,
	}

	matches := s.ranker.Rank(store, queryVec, enrichedQuery, params)

	s.logger.Info("recommendation served",
		zap.Int("top_k", params.TopK),
		zap.Float64("max_duration", params.MaxDuration),
		zap.Strings("test_types", parsed.TestTypes),
		zap.Int("results", len(matches)),
	)

	return project(matches), nil
}

// enrich delegates to the configured enricher, falling back to the raw query
// on any failure so the request still gets plain similarity scoring.
func (s *Service) enrich(ctx context.Context, query string) string {
	if s.enricher == nil {
		return query
	}

	enriched, err := s.enricher.Enrich(ctx, query)
	if err != nil {
		s.logger.Warn("query enrichment failed, falling back to raw query", zap.Error(err))
		return query
	}
	if enriched == "" {
		return query
	}

	return enriched
}

func project(matches []ranking.Match) *Response {
	recommendations := make([]Recommendation, 0, len(matches))
	for _, m := range matches {
		a := m.Assessment
		recommendations = append(recommendations, Recommendation{
			URL:             a.Link,
			Name:            a.Role,
			AdaptiveSupport: yesNo(a.AdaptiveIRT),
			RemoteSupport:   yesNo(a.RemoteTesting),
			Description:     a.Description,
			Duration:        a.DurationDisplay(),
			DurationMinutes: a.DurationMinutes,
			TestType:        a.TestTypes,
			Score:           m.TotalScore,
		})
	}

	return &Response{RecommendedAssessments: recommendations}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
