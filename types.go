package lingo

import "context"

// Format tells the remote engine how to treat a payload.
type Format string

const (
	// FormatText marks plain text payloads, eligible for delimiter batching.
	FormatText Format = "text"
	// FormatMarkup marks markup-bearing payloads, always dispatched whole.
	FormatMarkup Format = "markup"
)

// Request is a single call to the remote translation engine. SourceLang and
// TargetLang carry the codes actually sent over the wire, after fallback
// resolution.
type Request struct {
	Text       string
	SourceLang string
	TargetLang string
	Format     Format
}

// Adapter is the interface for remote translation transports.
type Adapter interface {
	Translate(ctx context.Context, req Request) (string, error)
}

// BulkError records one text whose translation failed even after the
// per-text fallback.
type BulkError struct {
	Text  string
	Cause error
}

// BulkResult is the outcome of a bulk translation. Every requested text is
// present in Translations; texts that could not be translated map to
// themselves and carry an entry in Errors.
type BulkResult struct {
	Translations map[string]string
	FromCache    int
	FromAPI      int
	Errors       []BulkError
}
