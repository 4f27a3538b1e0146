package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nirogya/lingo"
)

func TestHTTPAdapter_Translate(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("path = %q, want /translate", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "lingo/") {
			t.Errorf("User-Agent = %q", ua)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"translatedText": "नमस्ते"})
	}))
	defer server.Close()

	a := NewHTTPAdapter(HTTPConfig{Endpoint: server.URL, APIKey: "secret"})

	out, err := a.Translate(context.Background(), Request{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "hi",
		Format:     lingo.FormatText,
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "नमस्ते" {
		t.Errorf("Translate = %q", out)
	}

	if gotBody["q"] != "Hello" || gotBody["source"] != "en" || gotBody["target"] != "hi" {
		t.Errorf("request body = %v", gotBody)
	}
	if gotBody["format"] != "text" {
		t.Errorf("format = %v, want text", gotBody["format"])
	}
	if gotBody["api_key"] != "secret" {
		t.Errorf("api_key = %v", gotBody["api_key"])
	}
}

func TestHTTPAdapter_OmitsEmptyAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["api_key"]; ok {
			t.Error("api_key present in request without a configured key")
		}
		json.NewEncoder(w).Encode(map[string]string{"translatedText": "ok"})
	}))
	defer server.Close()

	a := NewHTTPAdapter(HTTPConfig{Endpoint: server.URL})
	if _, err := a.Translate(context.Background(), Request{Text: "x", SourceLang: "en", TargetLang: "hi"}); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
}

func TestHTTPAdapter_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	a := NewHTTPAdapter(HTTPConfig{Endpoint: server.URL})
	_, err := a.Translate(context.Background(), Request{Text: "x", SourceLang: "en", TargetLang: "hi"})
	if err == nil {
		t.Fatal("Translate should fail on non-200 status")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error = %v, want status and body", err)
	}
}

func TestHTTPAdapter_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"translatedText": ""})
	}))
	defer server.Close()

	a := NewHTTPAdapter(HTTPConfig{Endpoint: server.URL})
	if _, err := a.Translate(context.Background(), Request{Text: "x", SourceLang: "en", TargetLang: "hi"}); err == nil {
		t.Error("Translate should fail on an empty result")
	}
}

func TestHTTPAdapter_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	a := NewHTTPAdapter(HTTPConfig{Endpoint: server.URL})
	if _, err := a.Translate(context.Background(), Request{Text: "x", SourceLang: "en", TargetLang: "hi"}); err == nil {
		t.Error("Translate should fail on a malformed body")
	}
}

func TestHTTPAdapter_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	a := NewHTTPAdapter(HTTPConfig{Endpoint: server.URL})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.Translate(ctx, Request{Text: "x", SourceLang: "en", TargetLang: "hi"}); err == nil {
		t.Error("Translate should fail when the context is cancelled")
	}
}
