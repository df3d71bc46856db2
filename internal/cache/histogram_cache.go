// Package cache memoizes convolution histograms. The Convolver (spec §4.2,
// component C2) is the single hottest allocation in the daily pipeline —
// every chamber, every day, rebuilds a histogram from its race weight/
// probability set — and adjacent days typically differ by only a handful
// of polls, so most chambers hash to a histogram already computed. This
// follows internal/ml/cache.go's TTL-cache-with-hit/miss-stats shape from
// the teacher repo, swapping the ML-prediction key for a race-set hash.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// HistogramKey identifies a unique (weights, probabilities) race set.
type HistogramKey string

// NewHistogramKey hashes a chamber's per-race (seats, winProb) pairs into
// a stable cache key. Race order matters (it matches convolution order),
// so the hash is over the ordered sequence, not a sorted/ set.
func NewHistogramKey(seats []int, winProbs []float64) HistogramKey {
	h := sha256.New()
	for i := range seats {
		h.Write([]byte(strconv.Itoa(seats[i])))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatFloat(winProbs[i], 'g', 9, 64)))
		h.Write([]byte{0})
	}
	return HistogramKey(hex.EncodeToString(h.Sum(nil)))
}

// HistogramCache caches computed histograms keyed by HistogramKey.
type HistogramCache struct {
	cache     *gocache.Cache
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewHistogramCache builds a cache with the given TTL (and a cleanup
// interval of 2x the TTL, matching the teacher's PredictionCache).
func NewHistogramCache(ttl time.Duration) *HistogramCache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	cleanup := ttl
	if cleanup > 0 {
		cleanup *= 2
	}
	return &HistogramCache{cache: gocache.New(ttl, cleanup)}
}

// Get retrieves a cached histogram, reporting whether it was found.
func (c *HistogramCache) Get(key HistogramKey) ([]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, found := c.cache.Get(string(key)); found {
		c.hitCount++
		if hist, ok := v.([]float64); ok {
			return hist, true
		}
	}
	c.missCount++
	return nil, false
}

// Set stores a histogram under key.
func (c *HistogramCache) Set(key HistogramKey, histogram []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.SetDefault(string(key), histogram)
}

// Stats returns hit/miss counters and the hit ratio.
func (c *HistogramCache) Stats() (hits, misses uint64, ratio float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hits, misses = c.hitCount, c.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount reports the number of cached histograms.
func (c *HistogramCache) ItemCount() int {
	return c.cache.ItemCount()
}

func (c *HistogramCache) String() string {
	hits, misses, ratio := c.Stats()
	return fmt.Sprintf("hits=%d misses=%d ratio=%.3f", hits, misses, ratio)
}
