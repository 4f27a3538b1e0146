package cache

import (
	"sort"
	"sync"
	"time"
)

// memoryEntry holds one fast-tier value with its bookkeeping fields.
type memoryEntry struct {
	source     string
	translated string
	markup     bool
	cachedAt   time.Time
	access     int64
}

// Memory is the fast in-process tier: a bounded, thread-safe map with TTL
// and approximate-LRU eviction by access count.
type Memory struct {
	mu       sync.Mutex
	entries  map[Key]*memoryEntry
	capacity int
	ttl      time.Duration
}

// NewMemory creates a fast tier holding at most capacity entries. If
// capacity is 0 or negative, DefaultCapacity is used; if ttl is 0 or
// negative, entries never go stale.
func NewMemory(capacity int, ttl time.Duration) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Memory{
		entries:  make(map[Key]*memoryEntry),
		capacity: capacity,
		ttl:      ttl,
	}
}

// lookup returns the value for a key when present and within TTL, bumping
// its access counter. Stale entries stay in place for the expiry sweep.
func (m *Memory) lookup(key Key) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if m.ttl > 0 && time.Since(e.cachedAt) > m.ttl {
		return "", false
	}
	e.access++
	return e.translated, true
}

// put inserts or replaces the entry, evicting cold entries first when the
// tier is full. The entry's CachedAt and AccessCount are preserved so that
// promotions from the durable tier keep their history.
func (m *Memory) put(entry *Entry) {
	key := entry.Key()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.capacity {
		m.evictLocked()
	}
	m.entries[key] = &memoryEntry{
		source:     entry.SourceText,
		translated: entry.TranslatedText,
		markup:     entry.Markup,
		cachedAt:   entry.CachedAt,
		access:     entry.AccessCount,
	}
}

// Entries returns all non-stale entries. Used for cache export.
func (m *Memory) Entries() []*Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Entry, 0, len(m.entries))
	now := time.Now()
	for k, e := range m.entries {
		if m.ttl > 0 && now.Sub(e.cachedAt) > m.ttl {
			continue
		}
		out = append(out, &Entry{
			SourceText:     e.source,
			SourceLang:     k.SourceLang,
			TargetLang:     k.TargetLang,
			TranslatedText: e.translated,
			Markup:         e.markup,
			CachedAt:       e.cachedAt,
			AccessCount:    e.access,
		})
	}
	return out
}

// evictLocked drops the lowest-access ~20% of entries. A single-pass sort by
// access count, not strict recency order. Caller must hold mu.
func (m *Memory) evictLocked() {
	n := m.capacity / 5
	if n < 1 {
		n = 1
	}

	type candidate struct {
		key    Key
		access int64
	}
	candidates := make([]candidate, 0, len(m.entries))
	for k, e := range m.entries {
		candidates = append(candidates, candidate{key: k, access: e.access})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].access < candidates[j].access
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	for _, c := range candidates[:n] {
		delete(m.entries, c.key)
	}
}

// remove deletes a single key.
func (m *Memory) remove(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// sweepExpired deletes entries cached before the cutoff and returns how many
// were removed.
func (m *Memory) sweepExpired(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, e := range m.entries {
		if e.cachedAt.Before(cutoff) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries in the tier, including stale ones.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Clear removes all entries.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[Key]*memoryEntry)
}

// stats counts entries by target language.
func (m *Memory) stats() *Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Stats{Total: len(m.entries), ByLanguage: make(map[string]int)}
	for k := range m.entries {
		s.ByLanguage[k.TargetLang]++
	}
	return s
}
