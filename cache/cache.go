// Package cache provides the two-tier persistent translation cache: a fast
// in-process tier in front of a durable keyed tier that survives across
// sessions.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// DefaultTTL is the age beyond which a cached translation is stale.
const DefaultTTL = 7 * 24 * time.Hour

// DefaultCapacity is the fast tier's default entry limit.
const DefaultCapacity = 2000

// Key uniquely identifies a cached translation. Keying is exact triple match
// only: the same text requested for two target languages produces two
// independent entries.
type Key struct {
	Hash       string // SHA-256 of the trimmed source text
	SourceLang string
	TargetLang string
}

// KeyFor builds the composite key for a (text, source, target) triple.
func KeyFor(text, src, dst string) Key {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return Key{Hash: hex.EncodeToString(sum[:]), SourceLang: src, TargetLang: dst}
}

// Entry is one cached translation. CachedAt is refreshed, not just created,
// on every successful re-translation of the same key.
type Entry struct {
	SourceText     string
	SourceLang     string
	TargetLang     string
	TranslatedText string
	Markup         bool
	CachedAt       time.Time
	AccessCount    int64
}

// Key returns the entry's composite key.
func (e *Entry) Key() Key {
	return KeyFor(e.SourceText, e.SourceLang, e.TargetLang)
}

// Stats reports diagnostic entry counts.
type Stats struct {
	Total      int
	ByLanguage map[string]int
}

// Store is the engine-facing cache surface.
type Store interface {
	// Get returns the cached translation for a triple, or false on miss.
	// Expired entries are left in place for a later sweep, not removed on
	// read.
	Get(ctx context.Context, text, src, dst string) (string, bool)

	// Set stores a translation, writing through every tier.
	Set(ctx context.Context, text, src, dst, translated string, markup bool) error

	// GetBulk looks up many texts at once; misses are simply absent from
	// the result.
	GetBulk(ctx context.Context, texts []string, src, dst string) map[string]string

	// SetBulk stores every pair.
	SetBulk(ctx context.Context, translations map[string]string, src, dst string, markup bool) error

	// ClearExpired sweeps entries older than the TTL from every tier and
	// returns the number removed from the durable tier. Idempotent.
	ClearExpired(ctx context.Context) (int, error)

	// Stats returns diagnostic counts.
	Stats(ctx context.Context) (*Stats, error)
}

// EntryLister is implemented by durable tiers that can enumerate their
// full contents, enabling export and fast-tier warming.
type EntryLister interface {
	AllEntries(ctx context.Context) ([]*Entry, error)
}

// DurableStore is the session-persistent keyed tier. Its absence never
// breaks correctness, only durability across sessions.
type DurableStore interface {
	// Get returns the entry for a key, or nil if absent.
	Get(ctx context.Context, key Key) (*Entry, error)

	// Put inserts or replaces the entry for its key.
	Put(ctx context.Context, entry *Entry) error

	// DeleteOlderThan removes entries cached before the cutoff and returns
	// their keys so fast-tier copies can be dropped too.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]Key, error)

	// Count returns total and per-target-language entry counts.
	Count(ctx context.Context) (*Stats, error)

	Close() error
}
