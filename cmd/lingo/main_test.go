package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setupTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LINGO_ADAPTER_KIND", "mock")
	t.Setenv("LINGO_CACHE_PATH", filepath.Join(t.TempDir(), "lingo.db"))
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCommand()
	want := []string{"translate", "html", "object", "stats", "sweep", "export", "import", "languages"}
	have := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		have[sub.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestTranslateCommand(t *testing.T) {
	setupTestEnv(t)

	out, err := runCommand(t, "translate", "--lang", "hi", "Hello")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if !strings.Contains(out, "नमस्ते") {
		t.Errorf("output = %q, want the mock translation", out)
	}
}

func TestStatsCommand(t *testing.T) {
	setupTestEnv(t)

	if _, err := runCommand(t, "translate", "--lang", "hi", "Hello"); err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	out, err := runCommand(t, "stats")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out, "Cached translations: 1") {
		t.Errorf("stats output = %q", out)
	}
}

func TestSweepCommand(t *testing.T) {
	setupTestEnv(t)

	out, err := runCommand(t, "sweep")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if !strings.Contains(out, "Removed 0 expired entries") {
		t.Errorf("sweep output = %q", out)
	}
}

func TestLanguagesCommand(t *testing.T) {
	out, err := runCommand(t, "languages")
	if err != nil {
		t.Fatalf("languages failed: %v", err)
	}
	for _, want := range []string{"Assamese", "Bodo", "via hi"} {
		if !strings.Contains(out, want) {
			t.Errorf("languages output missing %q:\n%s", want, out)
		}
	}
}

func TestExportImportCommands(t *testing.T) {
	setupTestEnv(t)

	if _, err := runCommand(t, "translate", "--lang", "hi", "Hello"); err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	exportPath := filepath.Join(t.TempDir(), "export.json")
	out, err := runCommand(t, "export", exportPath)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "Exported cache") {
		t.Errorf("export output = %q", out)
	}

	// Import into a fresh database.
	t.Setenv("LINGO_CACHE_PATH", filepath.Join(t.TempDir(), "fresh.db"))
	out, err = runCommand(t, "import", exportPath)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 1 entries") {
		t.Errorf("import output = %q", out)
	}
}

func TestUnknownAdapterKind(t *testing.T) {
	t.Setenv("LINGO_ADAPTER_KIND", "telegraph")
	t.Setenv("LINGO_CACHE_PATH", filepath.Join(t.TempDir(), "lingo.db"))

	if _, err := runCommand(t, "translate", "--lang", "hi", "Hello"); err == nil {
		t.Error("translate should fail with an unknown adapter kind")
	}
}
