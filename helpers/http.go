package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"slices"
	"time"

	"sjsage522/offerwatch/pkg/errors"

	"golang.org/x/net/html/charset"
)

// HTTP client and header configurations
var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	}

	referers = []string{
		"https://www.google.com/",
		"https://www.google.pl/",
		"https://duckduckgo.com/",
	}

	// HTTP client with timeout
	client = &http.Client{
		Timeout: 10 * time.Second,
	}

	rateLimitStatuses = []int{http.StatusTooManyRequests, 430}
)

// IsRateLimitStatus reports whether the status code means the source throttles us
func IsRateLimitStatus(code int) bool {
	return slices.Contains(rateLimitStatuses, code)
}

// FetchWithRandomHeaders sends an HTTP GET request with randomized browser headers
// and returns the body converted to UTF-8. Failures are *errors.FetchError.
func FetchWithRandomHeaders(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.NewFetch(url, 0, "failed to create request", err)
	}

	// Set browser-like headers
	req.Header.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pl-PL,pl;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Referer", referers[rand.IntN(len(referers))])
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Sec-Fetch-User", "?1")

	// Send the request
	resp, err := client.Do(req)
	if err != nil {
		return "", errors.NewFetch(url, 0, "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	// Check for rate limiting
	if IsRateLimitStatus(resp.StatusCode) {
		retryAfter := resp.Header.Get("Retry-After")
		return "", errors.NewFetch(url, resp.StatusCode, fmt.Sprintf("rate limited; retry after %q", retryAfter), nil)
	}

	// Check for other error status codes
	if resp.StatusCode != http.StatusOK {
		return "", errors.NewFetch(url, resp.StatusCode, fmt.Sprintf("Request to scrape url failed with status %d", resp.StatusCode), nil)
	}

	// Read the entire response body
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewFetch(url, resp.StatusCode, "failed to read response body", err)
	}

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))

	// If already UTF-8, return as is
	if name == "utf-8" {
		return string(bodyBytes), nil
	}

	// Convert to UTF-8 if necessary
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))); err != nil {
		return "", errors.NewFetch(url, resp.StatusCode, "failed to read converted UTF-8 body", err)
	}

	return buf.String(), nil
}
