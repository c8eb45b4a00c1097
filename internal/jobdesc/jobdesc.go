// Package jobdesc extracts job description text from a posting URL.
package jobdesc

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const userAgent = "shl-recommender (+https://github.com/talentsift/shl-recommender)"

// Fetcher downloads a job posting page and extracts its readable text.
type Fetcher struct {
	HTTPClient *http.Client
	UserAgent  string
	logger     *zap.Logger
}

func NewFetcher(logger *zap.Logger) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: userAgent,
		logger:    logger,
	}
}

// Extract fetches the URL and returns the concatenated text of its paragraph
// and list item nodes. The result may be empty when the page carries no
// extractable text; callers treat that as a missing query.
func (f *Fetcher) Extract(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %q: unexpected status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing %q: %w", url, err)
	}

	var parts []string
	doc.Find("p, li").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	text := strings.Join(parts, " ")

	f.logger.Debug("extracted job description from url",
		zap.String("url", url),
		zap.Int("fragments", len(parts)),
		zap.Int("length", len(text)),
	)

	return text, nil
}
