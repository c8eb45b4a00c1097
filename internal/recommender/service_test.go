package recommender

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/talentsift/shl-recommender/internal/catalog"
)

// keywordEmbedder maps text to a fixed vector per keyword so similarity is
// predictable in tests.
type keywordEmbedder struct{}

func (e *keywordEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	switch {
	case contains(text, "java"):
		return []float32{1, 0}, nil
	case contains(text, "sales"):
		return []float32{0, 1}, nil
	default:
		return []float32{0.5, 0.5}, nil
	}
}

func (e *keywordEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

func contains(text, keyword string) bool {
	for i := 0; i+len(keyword) <= len(text); i++ {
		match := true
		for j := 0; j < len(keyword); j++ {
			c := text[i+j]
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c != keyword[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

type failingEmbedder struct{}

func (f *failingEmbedder) EmbedText(context.Context, string) ([]float32, error) {
	return nil, errors.New("endpoint unavailable")
}

func (f *failingEmbedder) EmbedTexts(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("endpoint unavailable")
}

type stubEnricher struct {
	response string
	err      error
}

func (s *stubEnricher) Enrich(context.Context, string) (string, error) {
	return s.response, s.err
}

func testHolder(t *testing.T) *catalog.Holder {
	t.Helper()

	store, err := catalog.NewStore([]catalog.Assessment{
		{
			Role:            "Java Developer Test",
			Link:            "https://www.shl.com/java",
			TestTypes:       "A, K",
			DurationMinutes: 30,
			Description:     "Core Java skills.",
			RemoteTesting:   true,
			Embedding:       []float32{1, 0},
		},
		{
			Role:            "Sales Screener",
			Link:            "https://www.shl.com/sales",
			TestTypes:       "P, B",
			DurationMinutes: 45,
			Description:     "Sales aptitude.",
			AdaptiveIRT:     true,
			Embedding:       []float32{0, 1},
		},
		{
			Role:            "Untimed Exercise",
			Link:            "https://www.shl.com/untimed",
			TestTypes:       "E",
			DurationMinutes: math.NaN(),
			Description:     "Exercise without a time limit.",
			Embedding:       []float32{1, 1},
		},
	})
	require.NoError(t, err)

	return catalog.NewHolder(store)
}

func TestRecommend(t *testing.T) {
	enricher := &stubEnricher{response: "Java developer role. {K} " + `{"Job Family": "Information Technology"}`}
	svc := New(testHolder(t), &keywordEmbedder{}, enricher, Defaults{}, zap.NewNop())

	resp, err := svc.Recommend(context.Background(), Request{Query: "Need a java engineer"})
	require.NoError(t, err)
	require.Len(t, resp.RecommendedAssessments, 2)

	top := resp.RecommendedAssessments[0]
	assert.Equal(t, "https://www.shl.com/java", top.URL)
	assert.Equal(t, "Java Developer Test", top.Name)
	assert.Equal(t, "Yes", top.RemoteSupport)
	assert.Equal(t, "No", top.AdaptiveSupport)
	assert.Equal(t, "30.0 min", top.Duration)
	assert.Equal(t, 30.0, top.DurationMinutes)
	assert.Equal(t, "A, K", top.TestType)
	// Cosine 1.0 plus the test type boost.
	assert.InDelta(t, 1.5, top.Score, 1e-9)
}

func TestRecommendEmptyQuery(t *testing.T) {
	svc := New(testHolder(t), &keywordEmbedder{}, nil, Defaults{}, zap.NewNop())

	_, err := svc.Recommend(context.Background(), Request{Query: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestRecommendNoCatalog(t *testing.T) {
	svc := New(catalog.NewHolder(nil), &keywordEmbedder{}, nil, Defaults{}, zap.NewNop())

	_, err := svc.Recommend(context.Background(), Request{Query: "anything"})
	assert.ErrorIs(t, err, ErrNoCatalog)
}

func TestRecommendEnrichmentFailureFallsBack(t *testing.T) {
	// A failing enricher degrades to the raw query instead of failing the request.
	enricher := &stubEnricher{err: errors.New("quota exceeded")}
	svc := New(testHolder(t), &keywordEmbedder{}, enricher, Defaults{}, zap.NewNop())

	resp, err := svc.Recommend(context.Background(), Request{Query: "sales position"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.RecommendedAssessments)
	assert.Equal(t, "Sales Screener", resp.RecommendedAssessments[0].Name)

	// No structured output means no boosts: pure cosine similarity.
	assert.InDelta(t, 1.0, resp.RecommendedAssessments[0].Score, 1e-9)
}

func TestRecommendEmbeddingFailureAborts(t *testing.T) {
	svc := New(testHolder(t), &failingEmbedder{}, nil, Defaults{}, zap.NewNop())

	_, err := svc.Recommend(context.Background(), Request{Query: "anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding query")
}

func TestRecommendExplicitZeroTopK(t *testing.T) {
	svc := New(testHolder(t), &keywordEmbedder{}, nil, Defaults{}, zap.NewNop())

	topK := 0
	resp, err := svc.Recommend(context.Background(), Request{Query: "java", TopK: &topK})
	require.NoError(t, err)
	assert.Empty(t, resp.RecommendedAssessments)
}

func TestRecommendMaxDurationFilters(t *testing.T) {
	svc := New(testHolder(t), &keywordEmbedder{}, nil, Defaults{}, zap.NewNop())

	maxDuration := 40.0
	resp, err := svc.Recommend(context.Background(), Request{Query: "sales", MaxDuration: &maxDuration})
	require.NoError(t, err)
	require.Len(t, resp.RecommendedAssessments, 1)
	assert.Equal(t, "Java Developer Test", resp.RecommendedAssessments[0].Name)
}

func TestRecommendDeterministic(t *testing.T) {
	enricher := &stubEnricher{response: "Java developer role. {K}"}
	svc := New(testHolder(t), &keywordEmbedder{}, enricher, Defaults{}, zap.NewNop())

	first, err := svc.Recommend(context.Background(), Request{Query: "java engineer"})
	require.NoError(t, err)
	second, err := svc.Recommend(context.Background(), Request{Query: "java engineer"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
