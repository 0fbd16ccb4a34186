package report

import (
	"fmt"
	"sync"
	"testing"

	"github.com/a3tai/mcp-attendance/internal/attendance"
)

func testRecord(name string) attendance.Record {
	return attendance.Record{
		StudentName: name,
		Subjects: []attendance.Row{
			{Subject: "Physics", Type: attendance.SessionTypeTheory, Present: 9, Total: 24, Percentage: 37.5},
		},
		Overall: attendance.Overall{Present: 9, Total: 24, Percentage: 37.5},
	}
}

func TestNewExtractionCache(t *testing.T) {
	cache := NewExtractionCache(10)
	if cache.maxEntries != 10 {
		t.Errorf("Expected maxEntries 10, got %d", cache.maxEntries)
	}

	// Non-positive limits fall back to the default
	cache = NewExtractionCache(0)
	if cache.maxEntries != DefaultCacheEntries {
		t.Errorf("Expected default maxEntries %d, got %d", DefaultCacheEntries, cache.maxEntries)
	}

	cache = NewExtractionCache(-5)
	if cache.maxEntries != DefaultCacheEntries {
		t.Errorf("Expected default maxEntries %d, got %d", DefaultCacheEntries, cache.maxEntries)
	}
}

func TestKeyFrom(t *testing.T) {
	k1 := KeyFrom("report text")
	k2 := KeyFrom("report text")
	k3 := KeyFrom("different text")

	if k1 != k2 {
		t.Error("Expected identical keys for identical text")
	}
	if k1 == k3 {
		t.Error("Expected different keys for different text")
	}
	if len(k1) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(k1))
	}
}

func TestExtractionCache_GetPut(t *testing.T) {
	cache := NewExtractionCache(4)
	key := KeyFrom("some report text")

	if _, ok := cache.Get(key); ok {
		t.Error("Expected miss on empty cache")
	}

	cache.Put(key, testRecord("Asha"))

	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("Expected hit after Put")
	}
	if got.StudentName != "Asha" {
		t.Errorf("Expected student Asha, got %s", got.StudentName)
	}
	if len(got.Subjects) != 1 {
		t.Errorf("Expected 1 subject, got %d", len(got.Subjects))
	}

	stats := cache.Stats()
	if stats.Hits != 1 {
		t.Errorf("Expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
	if stats.Entries != 1 {
		t.Errorf("Expected 1 entry, got %d", stats.Entries)
	}
	if stats.HitRate != 50.0 {
		t.Errorf("Expected 50%% hit rate, got %.1f", stats.HitRate)
	}
}

func TestExtractionCache_LRUEviction(t *testing.T) {
	cache := NewExtractionCache(2)

	keyA := KeyFrom("text a")
	keyB := KeyFrom("text b")
	keyC := KeyFrom("text c")

	cache.Put(keyA, testRecord("A"))
	cache.Put(keyB, testRecord("B"))

	// Touch A so B becomes the least recently used entry
	if _, ok := cache.Get(keyA); !ok {
		t.Fatal("Expected hit for keyA")
	}

	cache.Put(keyC, testRecord("C"))

	if cache.Contains(keyB) {
		t.Error("Expected keyB to be evicted")
	}
	if !cache.Contains(keyA) {
		t.Error("Expected keyA to still be in cache")
	}
	if !cache.Contains(keyC) {
		t.Error("Expected keyC to be in cache")
	}

	stats := cache.Stats()
	if stats.Evictions != 1 {
		t.Errorf("Expected 1 eviction, got %d", stats.Evictions)
	}
}

func TestExtractionCache_PutUpdatesExisting(t *testing.T) {
	cache := NewExtractionCache(2)
	key := KeyFrom("same text")

	cache.Put(key, testRecord("First"))
	cache.Put(key, testRecord("Second"))

	if cache.Len() != 1 {
		t.Errorf("Expected 1 entry after update, got %d", cache.Len())
	}

	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("Expected hit after update")
	}
	if got.StudentName != "Second" {
		t.Errorf("Expected updated record, got %s", got.StudentName)
	}

	if cache.Stats().Evictions != 0 {
		t.Error("Expected no evictions on update")
	}
}

func TestExtractionCache_Invalidate(t *testing.T) {
	cache := NewExtractionCache(4)
	key := KeyFrom("text")

	cache.Put(key, testRecord("A"))

	if !cache.Invalidate(key) {
		t.Error("Expected Invalidate to report an existing entry")
	}
	if cache.Contains(key) {
		t.Error("Expected entry to be gone after Invalidate")
	}
	if cache.Invalidate(key) {
		t.Error("Expected Invalidate to report a missing entry")
	}
}

func TestExtractionCache_Clear(t *testing.T) {
	cache := NewExtractionCache(8)

	for i := 1; i <= 5; i++ {
		cache.Put(KeyFrom(fmt.Sprintf("text-%d", i)), testRecord("S"))
	}
	cache.Get(KeyFrom("text-1"))

	cleared := cache.Clear()
	if cleared != 5 {
		t.Errorf("Expected 5 cleared entries, got %d", cleared)
	}
	if cache.Len() != 0 {
		t.Errorf("Expected 0 entries after clear, got %d", cache.Len())
	}

	stats := cache.Stats()
	if stats.Hits != 0 || stats.Misses != 0 || stats.Evictions != 0 {
		t.Errorf("Expected counters to be reset, got %+v", stats)
	}
}

func TestExtractionCache_Concurrent(t *testing.T) {
	cache := NewExtractionCache(32)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := KeyFrom(fmt.Sprintf("text-%d", j%16))
				cache.Put(key, testRecord(fmt.Sprintf("student-%d", n)))
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() > 32 {
		t.Errorf("Expected at most 32 entries, got %d", cache.Len())
	}
}

func BenchmarkExtractionCache_Get(b *testing.B) {
	cache := NewExtractionCache(DefaultCacheEntries)
	key := KeyFrom("benchmark text")
	cache.Put(key, testRecord("Bench"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(key)
	}
}
