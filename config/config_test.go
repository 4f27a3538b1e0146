package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SourceLang != "en" {
		t.Errorf("SourceLang = %q, want en", cfg.SourceLang)
	}
	if cfg.TargetLang != "as" {
		t.Errorf("TargetLang = %q, want as", cfg.TargetLang)
	}
	if cfg.Debounce != 50*time.Millisecond {
		t.Errorf("Debounce = %v, want 50ms", cfg.Debounce)
	}
	if cfg.ChunkSize != 50 {
		t.Errorf("ChunkSize = %d, want 50", cfg.ChunkSize)
	}
	if cfg.Cache.TTL != 7*24*time.Hour {
		t.Errorf("Cache.TTL = %v, want 7 days", cfg.Cache.TTL)
	}
	if cfg.Cache.Capacity != 2000 {
		t.Errorf("Cache.Capacity = %d, want 2000", cfg.Cache.Capacity)
	}
	if cfg.Adapter.Kind != "http" {
		t.Errorf("Adapter.Kind = %q, want http", cfg.Adapter.Kind)
	}
	if cfg.Adapter.Timeout != 15*time.Second {
		t.Errorf("Adapter.Timeout = %v, want 15s", cfg.Adapter.Timeout)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("LINGO_TARGET_LANG", "bn")
	t.Setenv("LINGO_CACHE_CAPACITY", "500")
	t.Setenv("LINGO_ADAPTER_KIND", "mock")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TargetLang != "bn" {
		t.Errorf("TargetLang = %q, want bn", cfg.TargetLang)
	}
	if cfg.Cache.Capacity != 500 {
		t.Errorf("Cache.Capacity = %d, want 500", cfg.Cache.Capacity)
	}
	if cfg.Adapter.Kind != "mock" {
		t.Errorf("Adapter.Kind = %q, want mock", cfg.Adapter.Kind)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lingo.yaml")
	content := `
target_lang: hi
debounce: 100ms
chunk_size: 25
cache:
  path: /tmp/custom.db
  ttl: 48h
adapter:
  kind: openai
  model: gpt-4o
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TargetLang != "hi" {
		t.Errorf("TargetLang = %q, want hi", cfg.TargetLang)
	}
	if cfg.Debounce != 100*time.Millisecond {
		t.Errorf("Debounce = %v, want 100ms", cfg.Debounce)
	}
	if cfg.ChunkSize != 25 {
		t.Errorf("ChunkSize = %d, want 25", cfg.ChunkSize)
	}
	if cfg.Cache.Path != "/tmp/custom.db" {
		t.Errorf("Cache.Path = %q", cfg.Cache.Path)
	}
	if cfg.Cache.TTL != 48*time.Hour {
		t.Errorf("Cache.TTL = %v, want 48h", cfg.Cache.TTL)
	}
	if cfg.Adapter.Kind != "openai" || cfg.Adapter.Model != "gpt-4o" {
		t.Errorf("Adapter = %+v", cfg.Adapter)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load should fail for a nonexistent config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, _ := Load("")
		return cfg
	}

	cfg := base()
	cfg.TargetLang = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty target_lang should fail validation")
	}

	cfg = base()
	cfg.ChunkSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero chunk_size should fail validation")
	}

	cfg = base()
	cfg.Debounce = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("negative debounce should fail validation")
	}

	cfg = base()
	cfg.Adapter.Kind = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown adapter kind should fail validation")
	}

	if err := base().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}
