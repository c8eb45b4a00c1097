// Package ranking turns an enriched query and a catalog snapshot into an
// ordered list of assessments via cosine similarity plus rule-based boosts.
package ranking

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/talentsift/shl-recommender/internal/ai"
	"github.com/talentsift/shl-recommender/internal/catalog"
	"github.com/talentsift/shl-recommender/internal/embeddings"
)

const (
	DefaultTopK        = 10
	DefaultMaxDuration = 60

	testTypeBoost  = 0.5
	jobLevelBoost  = 0.3
	jobFamilyBoost = 0.3
)

// Params control one ranking pass.
type Params struct {
	// TopK is the maximum number of results. Zero or negative yields none.
	TopK int
	// MaxDuration filters out assessments longer than this many minutes.
	// Assessments with unknown duration never pass the filter.
	MaxDuration float64
	// ExactTypeMatch switches the test type boost from single-letter substring
	// containment to token-exact matching. Off by default: the substring
	// heuristic is the documented behavior, exact matching exists for callers
	// that want to rule out spurious containment matches.
	ExactTypeMatch bool
}

// Match is one scored candidate of a ranking pass.
type Match struct {
	Assessment catalog.Assessment
	BaseScore  float64
	TotalScore float64
}

// Ranker scores and orders catalog records against an enriched query.
type Ranker struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Ranker {
	return &Ranker{logger: logger}
}

// Rank filters the snapshot by duration, scores each surviving record and
// returns at most params.TopK matches ordered by descending score. The pass
// is fully deterministic: ties keep catalog order.
func (r *Ranker) Rank(store *catalog.Store, queryVec []float32, query *ai.EnrichedQuery, params Params) []Match {
	if store == nil || params.TopK <= 0 {
		return []Match{}
	}

	initial := store.Len()
	matches := make([]Match, 0, initial)

	for _, a := range store.Assessments() {
		if !a.HasDuration() || a.DurationMinutes > params.MaxDuration {
			continue
		}
		matches = append(matches, score(a, queryVec, query, params))
	}

	if r.logger != nil {
		r.logger.Debug("duration filter",
			zap.Float64("max_duration", params.MaxDuration),
			zap.Int("initial", initial),
			zap.Int("dropped", initial-len(matches)),
			zap.Int("left", len(matches)),
		)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].TotalScore > matches[j].TotalScore
	})

	if len(matches) > params.TopK {
		matches = matches[:params.TopK]
	}

	return matches
}

func score(a catalog.Assessment, queryVec []float32, query *ai.EnrichedQuery, params Params) Match {
	base := embeddings.Cosine(a.Embedding, queryVec)
	total := base

	if query != nil {
		if matchesTestTypes(a, query.TestTypes, params.ExactTypeMatch) {
			total += testTypeBoost
		}
		if containsFold(a.Role, query.Metadata[ai.KeyJobLevel]) {
			total += jobLevelBoost
		}
		if containsFold(a.Role, query.Metadata[ai.KeyJobFamily]) {
			total += jobFamilyBoost
		}
	}

	return Match{Assessment: a, BaseScore: base, TotalScore: total}
}

func matchesTestTypes(a catalog.Assessment, codes []string, exact bool) bool {
	if len(codes) == 0 {
		return false
	}

	if exact {
		tokens := map[string]bool{}
		for _, t := range a.TypeTokens() {
			tokens[t] = true
		}
		for _, code := range codes {
			if tokens[code] {
				return true
			}
		}
		return false
	}

	for _, code := range codes {
		if strings.Contains(a.TestTypes, code) {
			return true
		}
	}
	return false
}

func containsFold(role, value string) bool {
	if value == "" {
		return false
	}
	return strings.Contains(strings.ToLower(role), strings.ToLower(value))
}
