package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sjsage522/offerwatch/pkg/errors"
	"sjsage522/offerwatch/services/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCache is an in-memory CacheService
type mockCache struct {
	items map[string][]byte
	ttl   map[string]time.Duration
	gets  int
}

func newMockCache() *mockCache {
	return &mockCache{items: map[string][]byte{}, ttl: map[string]time.Duration{}}
}

func (m *mockCache) Get(key string) ([]byte, error) {
	m.gets++
	v, ok := m.items[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (m *mockCache) Set(key string, value []byte, expiration time.Duration) error {
	m.items[key] = value
	m.ttl[key] = expiration
	return nil
}

func (m *mockCache) Delete(key string) error {
	delete(m.items, key)
	return nil
}

func TestFetchReturnsDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<section class="product-list"></section>`))
	}))
	defer server.Close()

	f := New(server.URL, nil, 0)
	doc, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, server.URL, doc.URL)
	assert.Contains(t, doc.HTML, "product-list")
}

func TestFetchNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	mc := newMockCache()
	f := New(server.URL, mc, 500*time.Second)
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFetch(err))
	assert.Empty(t, mc.items, "only rate limit statuses block the source")
}

func TestFetchRateLimitBlocksSource(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	mc := newMockCache()
	f := New(server.URL, mc, 500*time.Second)

	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, []byte("500"), mc.items[DefaultBlockKey])
	assert.Equal(t, 500*time.Second, mc.ttl[DefaultBlockKey])

	// Second run fails fast without hitting the server
	_, err = f.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFetch(err))
	assert.Contains(t, err.Error(), "rate limited for 8m20s")
	assert.Equal(t, 1, calls)
}

func TestFetchWithoutCacheNeverBlocks(t *testing.T) {
	calls := 0
	f := New("https://bank.example/offers", nil, 500*time.Second).
		WithFetchFunc(func(ctx context.Context, url string) (string, error) {
			calls++
			return "", errors.NewFetch(url, 430, "rate limited", nil)
		})

	for range 3 {
		_, err := f.Fetch(context.Background())
		require.Error(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestFetchUsesInjectedFunc(t *testing.T) {
	var gotURL string
	f := New("https://bank.example/offers", newMockCache(), time.Minute).
		WithFetchFunc(func(ctx context.Context, url string) (string, error) {
			gotURL = url
			return "<html></html>", nil
		})

	doc, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://bank.example/offers", gotURL)
	assert.Equal(t, Document{HTML: "<html></html>", URL: "https://bank.example/offers"}, doc)
}
