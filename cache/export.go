package cache

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"
)

// ExportFormat represents the JSON structure for cache export/import.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry represents a single cache entry.
type ExportEntry struct {
	SourceText     string `json:"source_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
	TranslatedText string `json:"translated_text"`
	Markup         bool   `json:"markup,omitempty"`
	CachedAt       string `json:"cached_at"`
}

// EntrySource is a cache tier whose entries can be enumerated for export.
type EntrySource interface {
	Entries() []*Entry
}

// Exporter writes cache contents to a portable JSON envelope, so a freshly
// provisioned device can be seeded without re-invoking the remote engine.
type Exporter struct {
	source EntrySource
}

// NewExporter creates a new cache exporter.
func NewExporter(source EntrySource) *Exporter {
	return &Exporter{source: source}
}

// Export writes the cache contents to a writer in JSON format.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	entries := e.source.Entries()
	out := ExportFormat{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    make([]ExportEntry, 0, len(entries)),
		Metadata:   metadata,
	}
	for _, entry := range entries {
		out.Entries = append(out.Entries, ExportEntry{
			SourceText:     entry.SourceText,
			SourceLang:     entry.SourceLang,
			TargetLang:     entry.TargetLang,
			TranslatedText: entry.TranslatedText,
			Markup:         entry.Markup,
			CachedAt:       entry.CachedAt.UTC().Format(time.RFC3339),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ExportToFile exports the cache to a file.
// The path is provided by the caller and is intentionally user-controlled.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return e.Export(f, metadata)
}

// ImportResult contains statistics about an import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}

// Importer loads exported cache entries into a store.
type Importer struct {
	store Store
}

// NewImporter creates a new cache importer.
func NewImporter(store Store) *Importer {
	return &Importer{store: store}
}

// Import reads cache entries from a reader and loads them into the store.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}
	for _, entry := range export.Entries {
		err := i.store.Set(ctx, entry.SourceText, entry.SourceLang, entry.TargetLang,
			entry.TranslatedText, entry.Markup)
		if err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportFromFile imports cache entries from a file.
// The path is provided by the caller and is intentionally user-controlled.
func (i *Importer) ImportFromFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(ctx, f)
}
