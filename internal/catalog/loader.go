package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// rawRow mirrors the scraper's CSV columns before normalization.
type rawRow struct {
	Role          string `mapstructure:"role"`
	Link          string `mapstructure:"link"`
	RemoteTesting string `mapstructure:"remote_testing"`
	AdaptiveIRT   string `mapstructure:"adaptive_irt"`
	TestTypes     string `mapstructure:"test_types"`
	Duration      string `mapstructure:"duration"`
	Description   string `mapstructure:"description"`
}

var (
	durationRe   = regexp.MustCompile(`\d+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Load reads the scraped assessment catalog from a CSV file. Rows are matched
// to columns by header name, so column order does not matter. Missing duration
// or description values are tolerated.
func Load(path string, logger *zap.Logger) ([]Assessment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer f.Close()

	assessments, err := Read(f, logger)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %q: %w", path, err)
	}

	return assessments, nil
}

// Read parses catalog CSV content from the provided reader.
func Read(r io.Reader, logger *zap.Logger) ([]Assessment, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	var assessments []Assessment
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		fields := make(map[string]string, len(header))
		for i, value := range record {
			if i < len(header) {
				fields[header[i]] = value
			}
		}

		var row rawRow
		if err := mapstructure.Decode(fields, &row); err != nil {
			return nil, fmt.Errorf("line %d: decoding row: %w", line, err)
		}

		assessments = append(assessments, normalize(row, logger))
	}

	if logger != nil {
		logger.Info("catalog loaded", zap.Int("assessments", len(assessments)))
	}

	return assessments, nil
}

func normalize(row rawRow, logger *zap.Logger) Assessment {
	a := Assessment{
		Role:            strings.TrimSpace(row.Role),
		Link:            strings.TrimSpace(row.Link),
		RemoteTesting:   parseIndicator(row.RemoteTesting),
		AdaptiveIRT:     parseIndicator(row.AdaptiveIRT),
		TestTypes:       strings.TrimSpace(row.TestTypes),
		DurationMinutes: parseDuration(row.Duration),
		Description:     normalizeWhitespace(row.Description),
	}

	// Codes outside the fixed alphabet are a scraping defect. The record is
	// kept since the rest of it is still usable.
	for _, token := range a.TypeTokens() {
		if !IsTypeCode(token) && logger != nil {
			logger.Warn("unknown test type code in catalog",
				zap.String("code", token),
				zap.String("link", a.Link),
			)
		}
	}

	return a
}

// parseDuration extracts the first integer run from a free-text duration,
// e.g. "30 minutes" or "max 45". Returns NaN when nothing parseable is found.
func parseDuration(s string) float64 {
	digits := durationRe.FindString(s)
	if digits == "" {
		return math.NaN()
	}
	minutes, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return math.NaN()
	}
	return minutes
}

func parseIndicator(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "✅", "yes", "true", "y", "1":
		return true
	default:
		return false
	}
}

func normalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
