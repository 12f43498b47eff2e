package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	assert.True(t, IsMiss(translate(memcache.ErrCacheMiss)))
	assert.False(t, IsMiss(translate(memcache.ErrServerError)))
	assert.Equal(t, memcache.ErrServerError, translate(memcache.ErrServerError))
}

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")
	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	// Set a value
	err := mc.Set("offers_test_key", []byte("500"), 2*time.Second)
	require.NoError(t, err)

	// Get the value
	value, err := mc.Get("offers_test_key")
	require.NoError(t, err)
	assert.Equal(t, "500", string(value))

	// Delete the value
	err = mc.Delete("offers_test_key")
	require.NoError(t, err)

	// Deleted keys are a miss
	_, err = mc.Get("offers_test_key")
	assert.True(t, IsMiss(err))

	// Deleting twice is a miss too
	assert.True(t, IsMiss(mc.Delete("offers_test_key")))
}
