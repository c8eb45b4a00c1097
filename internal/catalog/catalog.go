// Package catalog holds the scraped SHL assessment catalog in memory.
//
// The catalog is loaded once from the scraper's CSV output, embedded in bulk
// and then served as an immutable snapshot for the life of the process. A
// rebuild produces a fresh snapshot that is swapped in atomically.
package catalog

import (
	"fmt"
	"math"
	"strings"
)

// TypeAlphabet is the fixed set of single-letter SHL test type codes.
const TypeAlphabet = "ABCDEKPS"

// IsTypeCode reports whether the token is a valid single-letter test type code.
func IsTypeCode(token string) bool {
	return len(token) == 1 && strings.Contains(TypeAlphabet, token)
}

// Assessment is one row of the catalog.
type Assessment struct {
	Role            string
	Link            string
	RemoteTesting   bool
	AdaptiveIRT     bool
	TestTypes       string
	DurationMinutes float64 // NaN when the source had no parseable duration
	Description     string
	Embedding       []float32
}

// HasDuration reports whether the assessment carries a parsed duration.
func (a *Assessment) HasDuration() bool {
	return !math.IsNaN(a.DurationMinutes)
}

// DurationDisplay returns the duration formatted for presentation, e.g. "30.0 min".
// It returns an empty string when the duration is unknown.
func (a *Assessment) DurationDisplay() string {
	if !a.HasDuration() {
		return ""
	}
	return fmt.Sprintf("%.1f min", a.DurationMinutes)
}

// TypeTokens splits the raw test type string into trimmed tokens.
func (a *Assessment) TypeTokens() []string {
	parts := strings.Split(a.TestTypes, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
