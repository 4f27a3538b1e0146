package lingo

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// batchDelimiter separates texts joined into a single remote payload. An
// internal detail, not a wire contract: it only needs to be improbable in
// natural UI copy. A response that happens to disturb it fails the count
// check and falls back to per-text calls.
const batchDelimiter = "|||"

// fetchFunc resolves one text after a chunk-level failure.
type fetchFunc func(ctx context.Context, text, src, dst string) (string, error)

// translateBulk is the bulk pipeline: identity short-circuit, bulk cache
// lookup, chunked delimiter-joined remote calls for the misses, per-text
// fallback on misalignment or transport failure.
func (e *Engine) translateBulk(ctx context.Context, texts []string, src, dst string, markup bool) *BulkResult {
	res := &BulkResult{Translations: make(map[string]string, len(texts))}

	if sameLanguage(src, dst) {
		for _, t := range texts {
			res.Translations[t] = t
		}
		return res
	}

	var pending []string
	seen := make(map[string]struct{}, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			res.Translations[t] = t
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		pending = append(pending, t)
	}
	if len(pending) == 0 {
		return res
	}

	cached := e.store.GetBulk(ctx, pending, src, dst)
	res.FromCache = len(cached)
	for t, v := range cached {
		res.Translations[t] = v
	}

	var misses []string
	for _, t := range pending {
		if _, ok := cached[t]; !ok {
			misses = append(misses, t)
		}
	}
	if len(misses) == 0 {
		return res
	}

	if markup {
		// Markup payloads are never delimiter-joined: each goes out whole,
		// deduplicated against concurrent identical requests.
		for _, t := range misses {
			out, err := e.fetchCoalesced(ctx, t, src, dst, true)
			if err != nil {
				res.Translations[t] = t
				res.Errors = append(res.Errors, BulkError{Text: t, Cause: err})
				continue
			}
			res.Translations[t] = out
			res.FromAPI++
		}
		return res
	}

	dedupFallback := func(ctx context.Context, text, src, dst string) (string, error) {
		return e.fetchCoalesced(ctx, text, src, dst, false)
	}
	results, errs := e.translateMany(ctx, misses, src, dst, dedupFallback)
	for _, t := range misses {
		out, ok := results[t]
		if !ok {
			out = t
		}
		res.Translations[t] = out
		if err := errs[t]; err != nil {
			res.Errors = append(res.Errors, BulkError{Text: t, Cause: err})
		} else {
			res.FromAPI++
		}
	}
	return res
}

// translateMany resolves cache-missed texts in chunks of at most chunkSize,
// each chunk as one delimiter-joined remote call dispatched concurrently.
// Chunks whose response cannot be aligned positionally are discarded and
// retried text by text through fallback. Successful results are written
// through the cache. The returned maps carry every text's result and any
// per-text fallback errors.
func (e *Engine) translateMany(ctx context.Context, texts []string, src, dst string, fallback fetchFunc) (map[string]string, map[string]error) {
	results := make(map[string]string, len(texts))
	errs := make(map[string]error)
	var mu sync.Mutex

	g := new(errgroup.Group)
	for start := 0; start < len(texts); start += e.chunkSize {
		chunk := texts[start:min(start+e.chunkSize, len(texts))]
		g.Go(func() error {
			translated, err := e.translateChunk(ctx, chunk, src, dst)
			if err != nil {
				var alignErr *AlignmentError
				if errors.As(err, &alignErr) {
					e.log.Warn("bulk response misaligned, retrying texts individually",
						zap.String("target_lang", dst),
						zap.Int("expected", alignErr.Expected),
						zap.Int("got", alignErr.Got))
				} else {
					e.log.Warn("bulk translation failed, retrying texts individually",
						zap.String("target_lang", dst), zap.Error(err))
				}
				for _, text := range chunk {
					out, ferr := fallback(ctx, text, src, dst)
					mu.Lock()
					if ferr != nil {
						results[text] = text
						errs[text] = ferr
					} else {
						results[text] = out
					}
					mu.Unlock()
				}
				return nil
			}

			pairs := make(map[string]string, len(chunk))
			mu.Lock()
			for i, text := range chunk {
				results[text] = translated[i]
				pairs[text] = translated[i]
			}
			mu.Unlock()
			_ = e.store.SetBulk(ctx, pairs, src, dst, false)
			return nil
		})
	}
	_ = g.Wait()

	return results, errs
}

// translateChunk sends one chunk as a single delimiter-joined call and
// splits the response positionally. Single-text chunks skip the delimiter.
func (e *Engine) translateChunk(ctx context.Context, chunk []string, src, dst string) ([]string, error) {
	if len(chunk) == 1 {
		out, err := e.callAdapter(ctx, chunk[0], src, dst, false)
		if err != nil {
			return nil, err
		}
		return []string{strings.TrimSpace(out)}, nil
	}

	payload := strings.Join(chunk, "\n"+batchDelimiter+"\n")
	out, err := e.callAdapter(ctx, payload, src, dst, false)
	if err != nil {
		return nil, err
	}

	parts := splitDelimited(out)
	if len(parts) != len(chunk) {
		return nil, &AlignmentError{Expected: len(chunk), Got: len(parts)}
	}
	return parts, nil
}

// splitDelimited splits a joined response, tolerating whitespace the remote
// engine may have introduced around the delimiter.
func splitDelimited(payload string) []string {
	parts := strings.Split(payload, batchDelimiter)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
