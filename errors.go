package lingo

import "fmt"

// TransportError indicates a remote adapter call failure (network error,
// non-success status, malformed body). It is always recovered locally: the
// caller receives the original text, never this error.
type TransportError struct {
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transport error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transport error: %s", e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// AlignmentError indicates a delimiter-batched response split into a
// different number of parts than were sent. Accepting a misaligned
// positional mapping would corrupt unrelated UI strings, so the batch is
// discarded and every text retried individually.
type AlignmentError struct {
	Expected int
	Got      int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("batch alignment mismatch: expected %d parts, got %d", e.Expected, e.Got)
}

// StoreError indicates a durable cache tier failure. The engine degrades to
// in-process caching for the session; correctness is preserved, only
// cross-session persistence is lost.
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("store error: %s", e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
