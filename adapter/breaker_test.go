package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestBreakerAdapter_PassesThrough(t *testing.T) {
	inner := NewMockAdapter()
	a := NewBreakerAdapter(inner, BreakerConfig{})

	out, err := a.Translate(context.Background(), Request{
		Text: "Hello", SourceLang: "en", TargetLang: "hi",
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "नमस्ते" {
		t.Errorf("Translate = %q", out)
	}
	if a.State() != gobreaker.StateClosed {
		t.Errorf("State = %v, want closed", a.State())
	}
}

func TestBreakerAdapter_TripsAfterConsecutiveFailures(t *testing.T) {
	inner := NewMockAdapter()
	inner.Err = errors.New("remote down")
	a := NewBreakerAdapter(inner, BreakerConfig{FailureThreshold: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := a.Translate(ctx, Request{Text: "x", SourceLang: "en", TargetLang: "hi"}); err == nil {
			t.Fatalf("call %d should fail", i)
		}
	}
	if a.State() != gobreaker.StateOpen {
		t.Fatalf("State = %v, want open after threshold failures", a.State())
	}

	// Open breaker sheds the call without touching the remote service.
	before := inner.CallCount()
	_, err := a.Translate(ctx, Request{Text: "x", SourceLang: "en", TargetLang: "hi"})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if inner.CallCount() != before {
		t.Errorf("inner calls = %d, want %d (shed)", inner.CallCount(), before)
	}
}

func TestBreakerAdapter_RecoversAfterTimeout(t *testing.T) {
	inner := NewMockAdapter()
	inner.Err = errors.New("remote down")
	a := NewBreakerAdapter(inner, BreakerConfig{
		FailureThreshold: 1,
		Timeout:          20 * time.Millisecond,
	})
	ctx := context.Background()

	a.Translate(ctx, Request{Text: "x", SourceLang: "en", TargetLang: "hi"})
	if a.State() != gobreaker.StateOpen {
		t.Fatalf("State = %v, want open", a.State())
	}

	inner.Err = nil
	time.Sleep(30 * time.Millisecond)

	out, err := a.Translate(ctx, Request{Text: "Hello", SourceLang: "en", TargetLang: "hi"})
	if err != nil {
		t.Fatalf("Translate after recovery failed: %v", err)
	}
	if out != "नमस्ते" {
		t.Errorf("Translate = %q", out)
	}
}
