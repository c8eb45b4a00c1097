// Package extract parses the enricher's free-text response into a validated
// test type set and a metadata mapping.
//
// The enricher is asked to embed two brace-delimited literals in its answer: a
// set of single-letter codes like {A, K, P} and a flat object literal keyed by
// "Job Family", "Job Level", "Industry" and "Language". Only those two exact
// shapes are accepted; anything else in braces is ignored. Parsing never
// fails: malformed input degrades to an empty set and an empty mapping.
package extract

import (
	"strings"

	"github.com/talentsift/shl-recommender/internal/ai"
	"github.com/talentsift/shl-recommender/internal/catalog"
)

// Result is the structured output recovered from enriched text.
type Result struct {
	TestTypes []string
	Metadata  map[string]string
}

var recognizedKeys = map[string]bool{
	ai.KeyJobFamily: true,
	ai.KeyJobLevel:  true,
	ai.KeyIndustry:  true,
	ai.KeyLanguage:  true,
}

// Parse extracts the test type set and metadata mapping from enriched text.
// The two extractions are independent: every candidate brace span is tried
// for each shape, so prose around the literals and a missing or malformed
// literal of one kind never hides the other.
func Parse(text string) Result {
	result := Result{Metadata: map[string]string{}}

	spans := braceSpans(text)

	for _, span := range spans {
		if codes := parseTypeSet(span); len(codes) > 0 {
			result.TestTypes = codes
			break
		}
	}

	for _, span := range spans {
		if !strings.Contains(span, `"`+ai.KeyJobFamily+`"`) && !strings.Contains(span, `'`+ai.KeyJobFamily+`'`) {
			continue
		}
		if pairs, ok := parsePairs(span); ok && len(pairs) > 0 {
			result.Metadata = pairs
			break
		}
	}

	return result
}

// braceSpans returns the contents of every single-level brace span, i.e. text
// between a '{' and the next '}' with no nested '{' inside.
func braceSpans(text string) []string {
	var spans []string
	start := -1
	for i, r := range text {
		switch r {
		case '{':
			start = i
		case '}':
			if start >= 0 {
				spans = append(spans, text[start+1:i])
				start = -1
			}
		}
	}
	return spans
}

// parseTypeSet interprets a brace span as a set of test type codes. Tokens
// outside the fixed alphabet are silently dropped; duplicates collapse while
// the first occurrence keeps its position.
func parseTypeSet(span string) []string {
	var codes []string
	seen := map[string]bool{}
	for _, token := range strings.Split(span, ",") {
		token = strings.TrimSpace(token)
		if catalog.IsTypeCode(token) && !seen[token] {
			seen[token] = true
			codes = append(codes, token)
		}
	}
	return codes
}

// parsePairs interprets a brace span as a flat string-to-string object
// literal: quoted keys and values separated by colons and commas. Both single
// and double quotes are accepted since the provider is asked for an object
// literal but not held to a strict syntax. Only recognized metadata keys are
// kept. Returns false when the span does not match the shape.
func parsePairs(span string) (map[string]string, bool) {
	out := map[string]string{}
	i := 0

	skipSpaces := func() {
		for i < len(span) && (span[i] == ' ' || span[i] == '\t' || span[i] == '\n' || span[i] == '\r') {
			i++
		}
	}

	for {
		skipSpaces()
		if i >= len(span) {
			break
		}

		key, n, ok := scanQuoted(span[i:])
		if !ok {
			return nil, false
		}
		i += n

		skipSpaces()
		if i >= len(span) || span[i] != ':' {
			return nil, false
		}
		i++

		skipSpaces()
		value, n, ok := scanQuoted(span[i:])
		if !ok {
			return nil, false
		}
		i += n

		if recognizedKeys[key] {
			out[key] = value
		}

		skipSpaces()
		if i >= len(span) {
			break
		}
		if span[i] != ',' {
			return nil, false
		}
		i++
	}

	return out, true
}

// scanQuoted reads a leading single- or double-quoted string and returns its
// contents and consumed length.
func scanQuoted(s string) (string, int, bool) {
	if len(s) < 2 || (s[0] != '"' && s[0] != '\'') {
		return "", 0, false
	}
	quote := s[0]
	end := strings.IndexByte(s[1:], quote)
	if end < 0 {
		return "", 0, false
	}
	return s[1 : 1+end], end + 2, true
}
