package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"coin-dca/internal/model"
)

// CacheEntry represents a cached API response
type CacheEntry struct {
	Response  *model.MarketChartResponse
	ExpiresAt time.Time
}

// ResponseCache provides in-memory caching for CoinGecko API responses.
//
// The cache exists so repeated simulations over the same range don't burn
// through the public rate limit while iterating locally. It is disabled
// unless ENABLE_COINGECKO_CACHE=true and is always off when
// API_ENV=production.
type ResponseCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
}

var globalCache *ResponseCache
var cacheOnce sync.Once

// GetCache returns the global cache instance if caching is enabled.
// Returns nil if caching is disabled.
func GetCache() *ResponseCache {
	// Only enable cache if explicitly enabled via environment variable
	// AND only in development mode
	if os.Getenv("ENABLE_COINGECKO_CACHE") != "true" {
		return nil
	}
	if os.Getenv("API_ENV") == "production" {
		return nil
	}

	cacheOnce.Do(func() {
		ttl := 1 * time.Hour // Default TTL: 1 hour
		if ttlStr := os.Getenv("COINGECKO_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}

		globalCache = &ResponseCache{
			store: make(map[string]*CacheEntry),
			ttl:   ttl,
		}

		// Start cleanup goroutine
		go globalCache.cleanup()
	})

	return globalCache
}

// Get retrieves a cached response if available and not expired
func (c *ResponseCache) Get(key string) (*model.MarketChartResponse, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		return nil, false
	}

	return entry.Response, true
}

// Set stores a response in the cache
func (c *ResponseCache) Set(key string, response *model.MarketChartResponse) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &CacheEntry{
		Response:  response,
		ExpiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all entries from the cache
func (c *ResponseCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// cleanup periodically removes expired entries
func (c *ResponseCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.store {
			if now.After(entry.ExpiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}

// GenerateCacheKey creates a cache key from query parameters
func GenerateCacheKey(params MarketChartParams) string {
	keyStr := fmt.Sprintf("%s:%s:%s:%s",
		params.CoinID,
		params.VsCurrency,
		params.StartTime.Format(model.DayLayout),
		params.EndTime.Format(model.DayLayout),
	)

	// Hash the key to keep it reasonably sized
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
