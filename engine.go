package lingo

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nirogya/lingo/cache"
)

const (
	// DefaultDebounce is how long the engine waits for further cache misses
	// before flushing the pending batch. The timer is rearmed, not extended,
	// on every new miss.
	DefaultDebounce = 50 * time.Millisecond

	// DefaultChunkSize bounds how many texts are joined into one remote
	// call. A bound on request size and latency only, not semantic.
	DefaultChunkSize = 50
)

// Engine converts per-label translation requests into a small number of
// batched remote calls, backed by a persistent two-tier cache. Construct one
// instance per process with New and share it; every method is safe for
// concurrent use.
type Engine struct {
	adapter    Adapter
	store      cache.Store
	log        *zap.Logger
	sourceLang string
	debounce   time.Duration
	chunkSize  int

	mu         sync.RWMutex // guards targetLang
	targetLang string

	inflightMu sync.Mutex
	inflight   map[string]*inflightCall

	batchMu sync.Mutex
	batches map[string]*pendingBatch
}

// inflightCall is one outstanding remote translation. All callers for the
// same key attach to it and receive an identical settled result.
type inflightCall struct {
	done   chan struct{}
	result string
	err    error
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the cache store. Defaults to a fast-tier-only store.
func WithStore(store cache.Store) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLogger sets the engine's logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithSourceLang sets the source language (default: "en").
func WithSourceLang(code string) Option {
	return func(e *Engine) {
		e.sourceLang = code
	}
}

// WithDebounce sets the micro-batching debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		e.debounce = d
	}
}

// WithChunkSize sets the maximum number of texts per remote bulk call.
func WithChunkSize(n int) Option {
	return func(e *Engine) {
		e.chunkSize = n
	}
}

// New creates an Engine translating into targetLang through the given
// adapter.
func New(targetLang string, adapter Adapter, opts ...Option) *Engine {
	e := &Engine{
		adapter:    adapter,
		log:        zap.NewNop(),
		sourceLang: "en",
		targetLang: targetLang,
		debounce:   DefaultDebounce,
		chunkSize:  DefaultChunkSize,
		inflight:   make(map[string]*inflightCall),
		batches:    make(map[string]*pendingBatch),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = cache.NewTiered(nil, cache.WithLogger(e.log))
	}
	if e.chunkSize < 1 {
		e.chunkSize = 1
	}
	return e
}

// Translate translates text into the engine's target language. Misses are
// debounced into bulk remote calls; failures resolve to the original text,
// never an error.
func (e *Engine) Translate(ctx context.Context, text string) string {
	return e.translate(ctx, text, e.SourceLang(), e.TargetLang(), false)
}

// TranslateHTML translates a markup-bearing payload. Markup payloads are
// dispatched whole, never joined into delimiter batches. Full documents get
// lang and dir attributes stamped onto their <html> element.
func (e *Engine) TranslateHTML(ctx context.Context, content string) string {
	dst := e.TargetLang()
	src := e.SourceLang()
	if strings.TrimSpace(content) == "" || sameLanguage(src, dst) {
		return content
	}
	if !hasTranslatableText(content) {
		return content
	}
	out := e.translate(ctx, content, src, dst, true)
	return stampDocumentLanguage(out, dst)
}

// TranslateBulk translates many plain texts at once, serving what it can
// from cache and batching the rest. Every input text is present in the
// result; failed texts map to themselves.
func (e *Engine) TranslateBulk(ctx context.Context, texts []string) *BulkResult {
	return e.translateBulk(ctx, texts, e.SourceLang(), e.TargetLang(), false)
}

// TranslateHTMLBulk translates many markup payloads. Each is dispatched
// individually; markup is never delimiter-batched.
func (e *Engine) TranslateHTMLBulk(ctx context.Context, texts []string) *BulkResult {
	return e.translateBulk(ctx, texts, e.SourceLang(), e.TargetLang(), true)
}

// CacheStats returns diagnostic cache entry counts.
func (e *Engine) CacheStats(ctx context.Context) (*cache.Stats, error) {
	return e.store.Stats(ctx)
}

// ClearExpiredCache sweeps cache entries older than the TTL and returns the
// number removed. Idempotent; safe to run once per session.
func (e *Engine) ClearExpiredCache(ctx context.Context) (int, error) {
	return e.store.ClearExpired(ctx)
}

// SetTargetLang switches the language subsequent facade calls translate
// into. Cache entries for the previous language are untouched.
func (e *Engine) SetTargetLang(code string) {
	e.mu.Lock()
	e.targetLang = code
	e.mu.Unlock()
}

// TargetLang returns the current target language.
func (e *Engine) TargetLang() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.targetLang
}

// SourceLang returns the source language.
func (e *Engine) SourceLang() string {
	return e.sourceLang
}

// translate is the single-text path: identity short-circuit, cache, in-flight
// coalescing, then either the debounced batch (plain text) or a direct call
// (markup).
func (e *Engine) translate(ctx context.Context, text, src, dst string, markup bool) string {
	if strings.TrimSpace(text) == "" || sameLanguage(src, dst) {
		return text
	}
	if cached, ok := e.store.Get(ctx, text, src, dst); ok {
		return cached
	}

	if markup {
		out, err := e.fetchCoalesced(ctx, text, src, dst, true)
		if err != nil {
			return text
		}
		return out
	}

	key := inflightKey(text, src, dst, false)
	e.inflightMu.Lock()
	if f, ok := e.inflight[key]; ok {
		e.inflightMu.Unlock()
		return e.await(ctx, text, f)
	}
	f := &inflightCall{done: make(chan struct{})}
	e.inflight[key] = f
	e.inflightMu.Unlock()

	e.enqueue(text, src, dst)
	return e.await(ctx, text, f)
}

// await blocks until the in-flight call settles. A caller whose context ends
// first gets the original text back; the request runs to completion and its
// result is still cached for future callers.
func (e *Engine) await(ctx context.Context, original string, f *inflightCall) string {
	select {
	case <-f.done:
		return f.result
	case <-ctx.Done():
		return original
	}
}

// settle resolves an in-flight call and removes it from the map. Failed
// calls settle with the original text so waiters never see an error.
func (e *Engine) settle(key, result string, err error) {
	e.inflightMu.Lock()
	f := e.inflight[key]
	delete(e.inflight, key)
	e.inflightMu.Unlock()

	if f == nil {
		return
	}
	f.result = result
	f.err = err
	close(f.done)
}

// fetchCoalesced performs one deduplicated remote call for a single text,
// caching on success. Concurrent callers for the same key share one call.
func (e *Engine) fetchCoalesced(ctx context.Context, text, src, dst string, markup bool) (string, error) {
	if cached, ok := e.store.Get(ctx, text, src, dst); ok {
		return cached, nil
	}

	key := inflightKey(text, src, dst, markup)
	e.inflightMu.Lock()
	if f, ok := e.inflight[key]; ok {
		e.inflightMu.Unlock()
		select {
		case <-f.done:
			if f.err != nil {
				return "", f.err
			}
			return f.result, nil
		case <-ctx.Done():
			return "", &TransportError{Message: "translation abandoned", Cause: ctx.Err()}
		}
	}
	f := &inflightCall{done: make(chan struct{})}
	e.inflight[key] = f
	e.inflightMu.Unlock()

	out, err := e.callAdapter(ctx, text, src, dst, markup)
	if err != nil {
		e.log.Warn("translation failed",
			zap.String("target_lang", dst), zap.Bool("markup", markup), zap.Error(err))
		e.settle(key, text, err)
		return "", err
	}
	_ = e.store.Set(ctx, text, src, dst, out, markup)
	e.settle(key, out, nil)
	return out, nil
}

// callAdapter dispatches one remote call, resolving fallback language codes
// at this boundary only. Cache keys are never affected by the resolution.
func (e *Engine) callAdapter(ctx context.Context, text, src, dst string, markup bool) (string, error) {
	format := FormatText
	if markup {
		format = FormatMarkup
	}
	out, err := e.adapter.Translate(ctx, Request{
		Text:       text,
		SourceLang: ResolveAPICode(src),
		TargetLang: ResolveAPICode(dst),
		Format:     format,
	})
	if err != nil {
		return "", &TransportError{Message: "remote translation failed", Cause: err}
	}
	return out, nil
}
