package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistogramKeyStableForSameInput(t *testing.T) {
	a := NewHistogramKey([]int{3, 5}, []float64{0.4, 0.6})
	b := NewHistogramKey([]int{3, 5}, []float64{0.4, 0.6})
	assert.Equal(t, a, b)
}

func TestNewHistogramKeyOrderSensitive(t *testing.T) {
	a := NewHistogramKey([]int{3, 5}, []float64{0.4, 0.6})
	b := NewHistogramKey([]int{5, 3}, []float64{0.6, 0.4})
	assert.NotEqual(t, a, b)
}

func TestHistogramCacheGetSetRoundTrip(t *testing.T) {
	hc := NewHistogramCache(time.Minute)
	key := NewHistogramKey([]int{2}, []float64{0.5})

	_, found := hc.Get(key)
	assert.False(t, found)

	hc.Set(key, []float64{0.25, 0.5, 0.25})
	got, found := hc.Get(key)
	require.True(t, found)
	assert.Equal(t, []float64{0.25, 0.5, 0.25}, got)
}

func TestHistogramCacheStats(t *testing.T) {
	hc := NewHistogramCache(time.Minute)
	key := NewHistogramKey([]int{1}, []float64{0.9})
	hc.Set(key, []float64{0.1, 0.9})

	hc.Get(key)
	hc.Get(HistogramKey("missing"))

	hits, misses, ratio := hc.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestHistogramCacheItemCount(t *testing.T) {
	hc := NewHistogramCache(time.Minute)
	assert.Equal(t, 0, hc.ItemCount())
	hc.Set(NewHistogramKey([]int{1}, []float64{0.5}), []float64{0.5, 0.5})
	assert.Equal(t, 1, hc.ItemCount())
}

func TestHistogramCacheZeroTTLNeverExpires(t *testing.T) {
	hc := NewHistogramCache(0)
	key := NewHistogramKey([]int{1}, []float64{0.5})
	hc.Set(key, []float64{0.5, 0.5})
	_, found := hc.Get(key)
	assert.True(t, found)
}

func TestHistogramCacheString(t *testing.T) {
	hc := NewHistogramCache(time.Minute)
	assert.Contains(t, hc.String(), "hits=0")
}
