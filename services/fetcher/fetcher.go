package fetcher

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"sjsage522/offerwatch/helpers"
	"sjsage522/offerwatch/logger"
	"sjsage522/offerwatch/pkg/errors"
	"sjsage522/offerwatch/services/cache"
)

// DefaultBlockKey is the cache key marking the listing source as throttled
const DefaultBlockKey = "offers_rate_limited"

// Document is the raw listing page together with the URL it was fetched from
type Document struct {
	HTML string
	URL  string
}

// FetchFunc performs the GET and returns the UTF-8 body
type FetchFunc func(ctx context.Context, url string) (string, error)

// Fetcher retrieves the listing page. When a cache is configured, a rate limited
// response blocks further requests for BlockTime.
type Fetcher struct {
	URL       string
	CacheSvc  cache.CacheService
	CacheKey  string
	BlockTime time.Duration

	fetch  FetchFunc
	logger *logger.Logger
}

// New creates a fetcher for url. cacheSvc may be nil to disable the guard.
func New(url string, cacheSvc cache.CacheService, blockTime time.Duration) *Fetcher {
	return &Fetcher{
		URL:       url,
		CacheSvc:  cacheSvc,
		CacheKey:  DefaultBlockKey,
		BlockTime: blockTime,
		fetch:     helpers.FetchWithRandomHeaders,
		logger:    logger.ForFetcher(),
	}
}

// WithFetchFunc replaces the HTTP call, for tests
func (f *Fetcher) WithFetchFunc(fn FetchFunc) *Fetcher {
	f.fetch = fn
	return f
}

// Fetch downloads the listing page
func (f *Fetcher) Fetch(ctx context.Context) (Document, error) {
	if f.blocked() {
		return Document{}, errors.NewRateLimit(f.URL, f.BlockTime)
	}

	body, err := f.fetch(ctx, f.URL)
	if err != nil {
		var fetchErr *errors.FetchError
		if stderrors.As(err, &fetchErr) && helpers.IsRateLimitStatus(fetchErr.StatusCode) {
			f.block()
		}
		return Document{}, err
	}

	f.logger.Debug().
		Str("url", f.URL).
		Int("bytes", len(body)).
		Msg("Fetched listing page")

	return Document{HTML: body, URL: f.URL}, nil
}

func (f *Fetcher) guarded() bool {
	return f.CacheSvc != nil && f.CacheKey != "" && f.BlockTime > 0
}

func (f *Fetcher) blocked() bool {
	if !f.guarded() {
		return false
	}
	_, err := f.CacheSvc.Get(f.CacheKey)
	if err == nil {
		f.logger.Warn().
			Str("key", f.CacheKey).
			Msg("Listing source is rate limited, skipping request")
		return true
	}
	if !cache.IsMiss(err) {
		f.logger.Warn().Err(err).Msg("Rate limit cache lookup failed")
	}
	return false
}

func (f *Fetcher) block() {
	if !f.guarded() {
		return
	}
	seconds := strconv.Itoa(int(f.BlockTime / time.Second))
	if err := f.CacheSvc.Set(f.CacheKey, []byte(seconds), f.BlockTime); err != nil {
		f.logger.Warn().Err(err).Msg("Failed to set rate limit cache")
		return
	}
	f.logger.Warn().
		Dur("block_time", f.BlockTime).
		Msg("Listing source rate limited us, blocking further requests")
}
