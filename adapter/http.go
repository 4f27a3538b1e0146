package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nirogya/lingo"
)

// HTTPAdapter calls a LibreTranslate-compatible translation endpoint: one
// JSON POST per payload, one translated string back. Any non-success status
// or malformed body is an ordinary transport failure; the engine recovers by
// substituting the original text.
type HTTPAdapter struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// HTTPConfig holds configuration for the HTTP adapter.
type HTTPConfig struct {
	Endpoint string        // base URL, e.g. "https://translate.example.org"
	APIKey   string        // optional
	Timeout  time.Duration // default 15s
	Client   *http.Client  // optional override, for tests
}

// NewHTTPAdapter creates a new HTTP adapter.
func NewHTTPAdapter(cfg HTTPConfig) *HTTPAdapter {
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPAdapter{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   client,
	}
}

// Translate sends one payload to the remote engine.
func (a *HTTPAdapter) Translate(ctx context.Context, req Request) (string, error) {
	payload := map[string]any{
		"q":      req.Text,
		"source": req.SourceLang,
		"target": req.TargetLang,
		"format": string(req.Format),
	}
	if a.apiKey != "" {
		payload["api_key"] = a.apiKey
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.endpoint+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", lingo.UserAgent())

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling translation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("translation API returned %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if result.TranslatedText == "" {
		return "", fmt.Errorf("translation API returned an empty result")
	}
	return result.TranslatedText, nil
}

// Verify HTTPAdapter implements Adapter
var _ Adapter = (*HTTPAdapter)(nil)
