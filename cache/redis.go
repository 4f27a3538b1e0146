package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RedisStore is an alternative durable tier backed by Redis, for deployments
// where several kiosk clients share one cache. Entries live under
// per-triple keys; a sorted set indexed by cached_at drives the expiry
// sweep and the diagnostics.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	KeyPrefix string // Prefix for all keys (default: "lingo:")
}

// redisEntry is the stored value format.
type redisEntry struct {
	SourceText     string `json:"source_text"`
	TranslatedText string `json:"translated_text"`
	Markup         bool   `json:"markup"`
	CachedAt       int64  `json:"cached_at"`
	AccessCount    int64  `json:"access_count"`
}

// NewRedisStore creates a Redis store with the given configuration.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisStoreFromClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing client.
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "lingo:"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// member encodes a Key as a sorted-set member. Target language first so that
// per-language diagnostics parse cheaply.
func (s *RedisStore) member(key Key) string {
	return key.TargetLang + ":" + key.SourceLang + ":" + key.Hash
}

func (s *RedisStore) entryKey(key Key) string {
	return s.keyPrefix + "entry:" + s.member(key)
}

func (s *RedisStore) indexKey() string {
	return s.keyPrefix + "index"
}

// parseMember is the inverse of member.
func parseMember(member string) (Key, bool) {
	parts := strings.SplitN(member, ":", 3)
	if len(parts) != 3 {
		return Key{}, false
	}
	return Key{TargetLang: parts[0], SourceLang: parts[1], Hash: parts[2]}, true
}

// Get returns the entry for a key, or nil if absent.
func (s *RedisStore) Get(ctx context.Context, key Key) (*Entry, error) {
	data, err := s.client.Get(ctx, s.entryKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading entry: %w", err)
	}

	var rec redisEntry
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding entry: %w", err)
	}
	return &Entry{
		SourceText:     rec.SourceText,
		SourceLang:     key.SourceLang,
		TargetLang:     key.TargetLang,
		TranslatedText: rec.TranslatedText,
		Markup:         rec.Markup,
		CachedAt:       time.Unix(rec.CachedAt, 0),
		AccessCount:    rec.AccessCount,
	}, nil
}

// Put inserts or replaces the entry and refreshes its index score.
func (s *RedisStore) Put(ctx context.Context, entry *Entry) error {
	key := entry.Key()
	data, err := json.Marshal(redisEntry{
		SourceText:     entry.SourceText,
		TranslatedText: entry.TranslatedText,
		Markup:         entry.Markup,
		CachedAt:       entry.CachedAt.Unix(),
		AccessCount:    entry.AccessCount,
	})
	if err != nil {
		return fmt.Errorf("encoding entry: %w", err)
	}

	if err := s.client.Set(ctx, s.entryKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	if err := s.client.ZAdd(ctx, s.indexKey(), redis.Z{
		Score:  float64(entry.CachedAt.Unix()),
		Member: s.member(key),
	}).Err(); err != nil {
		return fmt.Errorf("indexing entry: %w", err)
	}
	return nil
}

// DeleteOlderThan removes entries cached before the cutoff and returns their
// keys.
func (s *RedisStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]Key, error) {
	max := strconv.FormatInt(cutoff.Unix(), 10)
	members, err := s.client.ZRangeByScore(ctx, s.indexKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: max,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("querying expired entries: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	entryKeys := make([]string, 0, len(members))
	keys := make([]Key, 0, len(members))
	for _, m := range members {
		k, ok := parseMember(m)
		if !ok {
			continue
		}
		keys = append(keys, k)
		entryKeys = append(entryKeys, s.entryKey(k))
	}

	if err := s.client.Del(ctx, entryKeys...).Err(); err != nil {
		return nil, fmt.Errorf("deleting expired entries: %w", err)
	}
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", max).Err(); err != nil {
		return nil, fmt.Errorf("trimming index: %w", err)
	}
	return keys, nil
}

// Count returns total and per-target-language entry counts by walking the
// index. Diagnostic use only.
func (s *RedisStore) Count(ctx context.Context) (*Stats, error) {
	total, err := s.client.ZCard(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("counting entries: %w", err)
	}

	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	stats := &Stats{Total: int(total), ByLanguage: make(map[string]int)}
	for _, m := range members {
		if k, ok := parseMember(m); ok {
			stats.ByLanguage[k.TargetLang]++
		}
	}
	return stats, nil
}

// AllEntries returns every indexed entry, for export and warming.
func (s *RedisStore) AllEntries(ctx context.Context) ([]*Entry, error) {
	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	entries := make([]*Entry, 0, len(members))
	for _, m := range members {
		k, ok := parseMember(m)
		if !ok {
			continue
		}
		entry, err := s.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Verify RedisStore implements DurableStore
var _ DurableStore = (*RedisStore)(nil)
var _ EntryLister = (*RedisStore)(nil)
