// Package scraper downloads article pages, detects paywalls and extracts
// readable text for classification.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mhittle/mikenews/internal/ratelimit"
	"github.com/mhittle/mikenews/internal/retry"
)

const (
	userAgent    = "Mozilla/5.0 (compatible; mikenews/1.0)"
	maxBodyBytes = 5 << 20
)

// Phrases that mark a page as behind a subscription wall. Matched as
// case-insensitive substrings against the raw page HTML.
var paywallIndicators = []string{
	"subscribe now",
	"subscription required",
	"pay wall",
	"paywall",
	"subscribe to continue",
	"premium content",
	"premium article",
	"to continue reading",
	"create an account to read",
}

type Scraper struct {
	client  *http.Client
	limiter *ratelimit.FetchLimiter
	retry   retry.Config
}

// New builds a scraper. A nil limiter disables the daily fetch budget.
func New(timeout time.Duration, limiter *ratelimit.FetchLimiter, retryCfg retry.Config) *Scraper {
	return &Scraper{
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		retry:   retryCfg,
	}
}

// Fetch downloads a page, spending one unit of the daily budget. Transient
// failures and non-200 responses are retried.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Use(); err != nil {
			return "", err
		}
	}

	var body string
	err := retry.WithRetry(ctx, s.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return err
		}
		body = string(data)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	return body, nil
}

// IsPaywalled reports whether the page HTML carries a subscription wall
// phrase. Checked before extraction: paywalled pages mostly contain teaser
// text, so their articles are classified from the RSS summary instead.
func IsPaywalled(html string) bool {
	lower := strings.ToLower(html)
	for _, indicator := range paywallIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
