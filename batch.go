package lingo

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// pendingBatch accumulates the texts that missed the cache for one
// (source, target) pair since the last flush. The batch is swapped out
// wholesale on flush so new arrivals start a fresh one.
type pendingBatch struct {
	src, dst string
	texts    []string
	seen     map[string]struct{}
	timer    *time.Timer
}

func batchKey(src, dst string) string {
	return src + "\x00" + dst
}

// enqueue adds a cache miss to the pending batch for its language pair and
// rearms the debounce timer. Callers must already hold an in-flight entry
// for the text; the flush settles it.
func (e *Engine) enqueue(text, src, dst string) {
	key := batchKey(src, dst)

	e.batchMu.Lock()
	b, ok := e.batches[key]
	if !ok {
		b = &pendingBatch{
			src:  src,
			dst:  dst,
			seen: make(map[string]struct{}),
		}
		e.batches[key] = b
		b.timer = time.AfterFunc(e.debounce, func() { e.flush(key) })
	} else {
		// Rearmed, not extended: each new miss restarts the full window.
		b.timer.Reset(e.debounce)
	}
	if _, dup := b.seen[text]; !dup {
		b.seen[text] = struct{}{}
		b.texts = append(b.texts, text)
	}
	e.batchMu.Unlock()
}

// flush atomically takes the accumulated batch and resolves it through the
// bulk pipeline, settling every waiting in-flight call. Arrivals after the
// swap start a new batch.
func (e *Engine) flush(key string) {
	e.batchMu.Lock()
	b, ok := e.batches[key]
	if !ok {
		e.batchMu.Unlock()
		return
	}
	delete(e.batches, key)
	e.batchMu.Unlock()

	e.log.Debug("flushing batch",
		zap.String("target_lang", b.dst), zap.Int("texts", len(b.texts)))

	// The callers' contexts have unrelated lifetimes; the flush runs to
	// completion regardless.
	ctx := context.Background()

	// Texts cached between enqueue and flush (by a concurrent bulk call of
	// the same text) settle directly without another remote call.
	cached := e.store.GetBulk(ctx, b.texts, b.src, b.dst)
	var misses []string
	for _, text := range b.texts {
		if out, ok := cached[text]; ok {
			e.settle(inflightKey(text, b.src, b.dst, false), out, nil)
		} else {
			misses = append(misses, text)
		}
	}
	if len(misses) == 0 {
		return
	}

	results, errs := e.translateMany(ctx, misses, b.src, b.dst, e.rawFetch)
	for _, text := range misses {
		out, ok := results[text]
		if !ok {
			out = text
		}
		e.settle(inflightKey(text, b.src, b.dst, false), out, errs[text])
	}
}

// rawFetch is the per-text fallback used while settling a flushed batch. It
// must not touch the in-flight map: the entries for these texts are owned by
// the flush that invoked it.
func (e *Engine) rawFetch(ctx context.Context, text, src, dst string) (string, error) {
	out, err := e.callAdapter(ctx, text, src, dst, false)
	if err != nil {
		return "", err
	}
	_ = e.store.Set(ctx, text, src, dst, out, false)
	return out, nil
}
