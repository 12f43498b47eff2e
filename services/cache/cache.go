package cache

import (
	stderrors "errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = stderrors.New("cache: miss")

// CacheService is the small key/value store backing the fetch rate limit guard
type CacheService interface {
	// Get retrieves a value from the cache, ErrMiss when absent
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// IsMiss reports whether err means the key was not found
func IsMiss(err error) bool {
	return stderrors.Is(err, ErrMiss)
}
