package adapter

import (
	"context"
	"fmt"
	"sync"
)

// MockAdapter is a mock translation transport for testing.
type MockAdapter struct {
	mu           sync.Mutex
	Translations map[string]string                 // map of source text to translation
	Respond      func(req Request) (string, error) // overrides Translations when set
	Err          error                             // returned by every call when set
	callCount    int
	requests     []Request
}

// NewMockAdapter creates a new mock adapter with default translations.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		Translations: map[string]string{
			"Hello":         "नमस्ते",
			"Water quality": "पानी की गुणवत्ता",
			"Report":        "रिपोर्ट",
		},
	}
}

// Translate returns mock translations. Unknown texts come back bracketed.
func (m *MockAdapter) Translate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.requests = append(m.requests, req)
	respond := m.Respond
	err := m.Err
	translation, ok := m.Translations[req.Text]
	m.mu.Unlock()

	if respond != nil {
		return respond(req)
	}
	if err != nil {
		return "", err
	}
	if ok {
		return translation, nil
	}
	return fmt.Sprintf("[%s]", req.Text), nil
}

// CallCount returns how many times Translate was invoked.
func (m *MockAdapter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Requests returns a copy of every request received.
func (m *MockAdapter) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Reset clears the call count and recorded requests.
func (m *MockAdapter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.requests = nil
}

// Verify MockAdapter implements Adapter
var _ Adapter = (*MockAdapter)(nil)
