package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Tiered combines the fast in-process tier with an optional durable tier.
// All writes go through both tiers; durable hits are promoted into the fast
// tier. A nil durable store degrades to fast-tier-only caching for the
// session, which preserves correctness but loses cross-session persistence.
type Tiered struct {
	fast     *Memory
	durable  DurableStore
	ttl      time.Duration
	capacity int
	log      *zap.Logger
}

// TieredOption configures a Tiered store.
type TieredOption func(*Tiered)

// WithTTL overrides the default 7-day entry TTL.
func WithTTL(ttl time.Duration) TieredOption {
	return func(t *Tiered) {
		t.ttl = ttl
	}
}

// WithCapacity overrides the fast tier's entry limit.
func WithCapacity(n int) TieredOption {
	return func(t *Tiered) {
		t.capacity = n
	}
}

// WithLogger sets the store's logger.
func WithLogger(log *zap.Logger) TieredOption {
	return func(t *Tiered) {
		t.log = log
	}
}

// NewTiered creates a two-tier store in front of the given durable tier.
// Pass nil to run fast-tier-only.
func NewTiered(durable DurableStore, opts ...TieredOption) *Tiered {
	t := &Tiered{
		durable:  durable,
		ttl:      DefaultTTL,
		capacity: DefaultCapacity,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.fast = NewMemory(t.capacity, t.ttl)
	return t
}

// Get checks the fast tier first, then the durable tier, promoting durable
// hits. Stale entries are left in place for ClearExpired.
func (t *Tiered) Get(ctx context.Context, text, src, dst string) (string, bool) {
	key := KeyFor(text, src, dst)

	if v, ok := t.fast.lookup(key); ok {
		return v, true
	}
	if t.durable == nil {
		return "", false
	}

	entry, err := t.durable.Get(ctx, key)
	if err != nil {
		t.log.Debug("durable tier read failed",
			zap.String("target_lang", dst), zap.Error(err))
		return "", false
	}
	if entry == nil {
		return "", false
	}
	if t.ttl > 0 && time.Since(entry.CachedAt) > t.ttl {
		return "", false
	}

	t.fast.put(entry)
	return entry.TranslatedText, true
}

// Set writes through both tiers. Concurrent writers to one key are
// last-write-wins, safe because repeated writes of a key are idempotent in
// content.
func (t *Tiered) Set(ctx context.Context, text, src, dst, translated string, markup bool) error {
	entry := &Entry{
		SourceText:     text,
		SourceLang:     src,
		TargetLang:     dst,
		TranslatedText: translated,
		Markup:         markup,
		CachedAt:       time.Now(),
	}
	t.fast.put(entry)

	if t.durable == nil {
		return nil
	}
	if err := t.durable.Put(ctx, entry); err != nil {
		t.log.Warn("durable tier write failed",
			zap.String("target_lang", dst), zap.Error(err))
		return fmt.Errorf("durable tier write: %w", err)
	}
	return nil
}

// GetBulk performs concurrent per-text lookups; misses are absent from the
// result.
func (t *Tiered) GetBulk(ctx context.Context, texts []string, src, dst string) map[string]string {
	results := make(map[string]string, len(texts))
	if len(texts) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, text := range texts {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			if v, ok := t.Get(ctx, text, src, dst); ok {
				mu.Lock()
				results[text] = v
				mu.Unlock()
			}
		}(text)
	}
	wg.Wait()

	return results
}

// SetBulk writes every pair.
func (t *Tiered) SetBulk(ctx context.Context, translations map[string]string, src, dst string, markup bool) error {
	var firstErr error
	for text, translated := range translations {
		if err := t.Set(ctx, text, src, dst, translated, markup); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ClearExpired sweeps entries older than the TTL from the durable tier,
// dropping any fast-tier copies, and returns the number removed. With no
// durable tier it sweeps the fast tier alone. Idempotent.
func (t *Tiered) ClearExpired(ctx context.Context) (int, error) {
	if t.ttl <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-t.ttl)

	if t.durable == nil {
		return t.fast.sweepExpired(cutoff), nil
	}

	keys, err := t.durable.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("durable tier sweep: %w", err)
	}
	for _, k := range keys {
		t.fast.remove(k)
	}
	t.fast.sweepExpired(cutoff)
	return len(keys), nil
}

// Stats reports entry counts from the durable tier when available, the fast
// tier otherwise.
func (t *Tiered) Stats(ctx context.Context) (*Stats, error) {
	if t.durable != nil {
		return t.durable.Count(ctx)
	}
	return t.fast.stats(), nil
}

// Entries exposes the fast tier's non-stale entries for export.
func (t *Tiered) Entries() []*Entry {
	return t.fast.Entries()
}

// WarmFromDurable loads every durable entry into the fast tier so exports
// see the full cache. No-op when the durable tier is absent or cannot
// enumerate.
func (t *Tiered) WarmFromDurable(ctx context.Context) error {
	lister, ok := t.durable.(EntryLister)
	if !ok {
		return nil
	}
	entries, err := lister.AllEntries(ctx)
	if err != nil {
		return fmt.Errorf("enumerating durable tier: %w", err)
	}
	for _, entry := range entries {
		if t.ttl > 0 && time.Since(entry.CachedAt) > t.ttl {
			continue
		}
		t.fast.put(entry)
	}
	return nil
}

// Persistent reports whether a durable tier is attached.
func (t *Tiered) Persistent() bool {
	return t.durable != nil
}

// Verify Tiered implements Store
var _ Store = (*Tiered)(nil)
