package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

func encodeRedisEntry(t *testing.T, entry *Entry) []byte {
	t.Helper()
	data, err := json.Marshal(redisEntry{
		SourceText:     entry.SourceText,
		TranslatedText: entry.TranslatedText,
		Markup:         entry.Markup,
		CachedAt:       entry.CachedAt.Unix(),
		AccessCount:    entry.AccessCount,
	})
	if err != nil {
		t.Fatalf("encoding entry: %v", err)
	}
	return data
}

func TestRedisStore_Get_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, "test:")
	entry := &Entry{
		SourceText: "Hello", SourceLang: "en", TargetLang: "hi",
		TranslatedText: "नमस्ते", CachedAt: time.Unix(1700000000, 0),
	}
	key := entry.Key()

	mock.ExpectGet("test:entry:hi:en:" + key.Hash).SetVal(string(encodeRedisEntry(t, entry)))

	got, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for stored entry")
	}
	if got.TranslatedText != "नमस्ते" || got.SourceLang != "en" || got.TargetLang != "hi" {
		t.Errorf("entry = %+v", got)
	}
	if !got.CachedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("CachedAt = %v", got.CachedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedisStore_Get_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, "test:")
	key := KeyFor("Hello", "en", "hi")

	mock.ExpectGet("test:entry:hi:en:" + key.Hash).RedisNil()

	got, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %+v, want nil for missing key", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedisStore_Put(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, "test:")
	entry := &Entry{
		SourceText: "Hello", SourceLang: "en", TargetLang: "hi",
		TranslatedText: "नमस्ते", CachedAt: time.Unix(1700000000, 0),
	}
	key := entry.Key()
	member := "hi:en:" + key.Hash

	mock.ExpectSet("test:entry:"+member, encodeRedisEntry(t, entry), 0).SetVal("OK")
	mock.ExpectZAdd("test:index", redis.Z{
		Score:  float64(1700000000),
		Member: member,
	}).SetVal(1)

	if err := store.Put(context.Background(), entry); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedisStore_DeleteOlderThan(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, "test:")
	cutoff := time.Unix(1700000000, 0)
	max := strconv.FormatInt(cutoff.Unix(), 10)
	member := "hi:en:abc123"

	mock.ExpectZRangeByScore("test:index", &redis.ZRangeBy{
		Min: "-inf",
		Max: max,
	}).SetVal([]string{member})
	mock.ExpectDel("test:entry:" + member).SetVal(1)
	mock.ExpectZRemRangeByScore("test:index", "-inf", max).SetVal(1)

	keys, err := store.DeleteOlderThan(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("deleted keys = %d, want 1", len(keys))
	}
	want := Key{TargetLang: "hi", SourceLang: "en", Hash: "abc123"}
	if keys[0] != want {
		t.Errorf("key = %+v, want %+v", keys[0], want)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedisStore_DeleteOlderThan_Empty(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, "test:")
	cutoff := time.Unix(1700000000, 0)

	mock.ExpectZRangeByScore("test:index", &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(cutoff.Unix(), 10),
	}).SetVal([]string{})

	keys, err := store.DeleteOlderThan(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("deleted keys = %v, want none", keys)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedisStore_Count(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, "test:")

	mock.ExpectZCard("test:index").SetVal(3)
	mock.ExpectZRange("test:index", 0, -1).SetVal([]string{
		"hi:en:aaa", "hi:en:bbb", "as:en:ccc",
	})

	stats, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.ByLanguage["hi"] != 2 || stats.ByLanguage["as"] != 1 {
		t.Errorf("ByLanguage = %v", stats.ByLanguage)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestParseMember(t *testing.T) {
	key, ok := parseMember("hi:en:abc")
	if !ok {
		t.Fatal("parseMember failed on valid member")
	}
	if key.TargetLang != "hi" || key.SourceLang != "en" || key.Hash != "abc" {
		t.Errorf("key = %+v", key)
	}

	if _, ok := parseMember("malformed"); ok {
		t.Error("parseMember should reject a member without separators")
	}
}
