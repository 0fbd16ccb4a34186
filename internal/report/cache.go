package report

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/a3tai/mcp-attendance/internal/attendance"
)

// DefaultCacheEntries bounds the extraction cache when no limit is configured
const DefaultCacheEntries = 256

// ExtractionCache memoizes extraction results keyed by a hash of the exact
// raw text handed to the extractor. Eviction is LRU at the entry limit.
// Records are stored and returned by value; a hit returns the same record
// a fresh extraction of the text would.
type ExtractionCache struct {
	entries   map[string]attendance.Record
	lruList   *list.List               // Most recently used at the front
	keyToNode map[string]*list.Element // Fast lookup from key to list node

	maxEntries int

	stats CacheStats
	mutex sync.RWMutex
}

// CacheStats provides cache performance counters
type CacheStats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Entries   int     `json:"entries"`
	HitRate   float64 `json:"hit_rate"`
}

// NewExtractionCache creates an extraction cache holding up to maxEntries
// records. A non-positive limit falls back to DefaultCacheEntries.
func NewExtractionCache(maxEntries int) *ExtractionCache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}

	return &ExtractionCache{
		entries:    make(map[string]attendance.Record),
		lruList:    list.New(),
		keyToNode:  make(map[string]*list.Element),
		maxEntries: maxEntries,
	}
}

// KeyFrom returns the cache key for a piece of raw report text
func KeyFrom(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// Get retrieves a cached record and marks it recently used
func (c *ExtractionCache) Get(key string) (attendance.Record, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	rec, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return attendance.Record{}, false
	}

	if node, exists := c.keyToNode[key]; exists {
		c.lruList.MoveToFront(node)
	}
	c.stats.Hits++

	return rec, true
}

// Put stores a record, evicting least recently used entries if needed
func (c *ExtractionCache) Put(key string, rec attendance.Record) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = rec
		if node, ok := c.keyToNode[key]; ok {
			c.lruList.MoveToFront(node)
		}
		return
	}

	for len(c.entries) >= c.maxEntries && c.lruList.Len() > 0 {
		c.evictOldest()
	}

	c.entries[key] = rec
	c.keyToNode[key] = c.lruList.PushFront(key)
}

// Contains checks for a key without touching recency or counters
func (c *ExtractionCache) Contains(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	_, exists := c.entries[key]
	return exists
}

// Invalidate removes a single entry, reporting whether it existed
func (c *ExtractionCache) Invalidate(key string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.removeByKey(key)
}

// Clear removes all entries and resets counters, returning the number of
// entries dropped
func (c *ExtractionCache) Clear() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cleared := len(c.entries)
	c.entries = make(map[string]attendance.Record)
	c.lruList = list.New()
	c.keyToNode = make(map[string]*list.Element)
	c.stats = CacheStats{}

	return cleared
}

// Stats returns current cache statistics
func (c *ExtractionCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := c.stats
	stats.Entries = len(c.entries)

	total := stats.Hits + stats.Misses
	if total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}

	return stats
}

// Len returns the number of cached entries
func (c *ExtractionCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

// evictOldest drops the least recently used entry. Caller must hold the
// write lock.
func (c *ExtractionCache) evictOldest() {
	element := c.lruList.Back()
	if element == nil {
		return
	}

	key, _ := element.Value.(string)
	if c.removeByKey(key) {
		c.stats.Evictions++
	}
}

// removeByKey removes an entry by key. Caller must hold the write lock.
func (c *ExtractionCache) removeByKey(key string) bool {
	if _, exists := c.entries[key]; !exists {
		return false
	}

	delete(c.entries, key)
	if node, ok := c.keyToNode[key]; ok {
		c.lruList.Remove(node)
		delete(c.keyToNode, key)
	}

	return true
}
