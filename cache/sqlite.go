package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the default durable tier: a single-file database that
// survives across sessions. Entries are addressed by the composite
// (text_hash, source_lang, target_lang) key; cached_at is indexed for the
// expiry sweep.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS translations (
	text_hash       TEXT    NOT NULL,
	source_lang     TEXT    NOT NULL,
	target_lang     TEXT    NOT NULL,
	source_text     TEXT    NOT NULL,
	translated_text TEXT    NOT NULL,
	is_markup       INTEGER NOT NULL DEFAULT 0,
	cached_at       INTEGER NOT NULL,
	access_count    INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (text_hash, source_lang, target_lang)
);
CREATE INDEX IF NOT EXISTS idx_translations_cached_at ON translations (cached_at);
`

// NewSQLiteStore opens (creating if necessary) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get returns the entry for a key, or nil if absent. Expiry is the caller's
// concern; stale rows are returned as-is.
func (s *SQLiteStore) Get(ctx context.Context, key Key) (*Entry, error) {
	const query = `
		SELECT source_text, translated_text, is_markup, cached_at, access_count
		FROM translations
		WHERE text_hash = ? AND source_lang = ? AND target_lang = ?`

	var (
		entry    Entry
		markup   int
		cachedAt int64
	)
	err := s.db.QueryRowContext(ctx, query, key.Hash, key.SourceLang, key.TargetLang).
		Scan(&entry.SourceText, &entry.TranslatedText, &markup, &cachedAt, &entry.AccessCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying entry: %w", err)
	}

	entry.SourceLang = key.SourceLang
	entry.TargetLang = key.TargetLang
	entry.Markup = markup != 0
	entry.CachedAt = time.Unix(cachedAt, 0)
	return &entry, nil
}

// Put inserts or replaces the entry for its key. Re-translations of an
// existing key refresh cached_at.
func (s *SQLiteStore) Put(ctx context.Context, entry *Entry) error {
	const query = `
		INSERT INTO translations
			(text_hash, source_lang, target_lang, source_text, translated_text, is_markup, cached_at, access_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (text_hash, source_lang, target_lang) DO UPDATE SET
			translated_text = excluded.translated_text,
			is_markup       = excluded.is_markup,
			cached_at       = excluded.cached_at`

	key := entry.Key()
	markup := 0
	if entry.Markup {
		markup = 1
	}
	_, err := s.db.ExecContext(ctx, query,
		key.Hash, key.SourceLang, key.TargetLang,
		entry.SourceText, entry.TranslatedText, markup,
		entry.CachedAt.Unix(), entry.AccessCount)
	if err != nil {
		return fmt.Errorf("upserting entry: %w", err)
	}
	return nil
}

// DeleteOlderThan removes entries cached before the cutoff and returns their
// keys.
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]Key, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning sweep: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT text_hash, source_lang, target_lang FROM translations WHERE cached_at < ?`,
		cutoff.Unix())
	if err != nil {
		return nil, fmt.Errorf("selecting expired entries: %w", err)
	}

	var keys []Key
	for rows.Next() {
		var k Key
		if err := rows.Scan(&k.Hash, &k.SourceLang, &k.TargetLang); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning expired entry: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating expired entries: %w", err)
	}
	rows.Close()

	if len(keys) > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM translations WHERE cached_at < ?`, cutoff.Unix()); err != nil {
			return nil, fmt.Errorf("deleting expired entries: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sweep: %w", err)
	}
	return keys, nil
}

// Count returns total and per-target-language entry counts.
func (s *SQLiteStore) Count(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByLanguage: make(map[string]int)}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM translations`).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("counting entries: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT target_lang, COUNT(*) FROM translations GROUP BY target_lang`)
	if err != nil {
		return nil, fmt.Errorf("counting by language: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			lang  string
			count int
		)
		if err := rows.Scan(&lang, &count); err != nil {
			return nil, fmt.Errorf("scanning language count: %w", err)
		}
		stats.ByLanguage[lang] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating language counts: %w", err)
	}
	return stats, nil
}

// AllEntries returns every stored entry, for export and warming.
func (s *SQLiteStore) AllEntries(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_lang, target_lang, source_text, translated_text, is_markup, cached_at, access_count
		FROM translations`)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			entry    Entry
			markup   int
			cachedAt int64
		)
		if err := rows.Scan(&entry.SourceLang, &entry.TargetLang,
			&entry.SourceText, &entry.TranslatedText, &markup, &cachedAt,
			&entry.AccessCount); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entry.Markup = markup != 0
		entry.CachedAt = time.Unix(cachedAt, 0)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Verify SQLiteStore implements DurableStore
var _ DurableStore = (*SQLiteStore)(nil)
var _ EntryLister = (*SQLiteStore)(nil)
