package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}
	return string(data)
}

func TestSetKeyInFile_NewKeyEmptyFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config")

	if err := SetKeyInFile(path, "color", "auto"); err != nil {
		t.Fatalf("SetKeyInFile returned error: %v", err)
	}
	if got := strings.TrimSpace(readFile(t, path)); got != "color auto" {
		t.Fatalf("expected 'color auto', got %q", got)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath returned error: %v", err)
	}
	if v, ok := cfg.GetGlobalOption("color"); !ok || v != "auto" {
		t.Fatalf("expected color=auto after round-trip, got %q exists=%v", v, ok)
	}
}

func TestSetKeyInFile_UpdatePreservesLayout(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")

	initial := "# settings\nstrict true\n\n# colors\ncolor auto\n"
	if err := os.WriteFile(path, []byte(initial), 0644); err != nil {
		t.Fatalf("failed to write initial config: %v", err)
	}
	if err := SetKeyInFile(path, "color", "never"); err != nil {
		t.Fatalf("SetKeyInFile returned error: %v", err)
	}

	want := "# settings\nstrict true\n\n# colors\ncolor never\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSetKeyInFile_AppendsBeforeTrailingNewline(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")

	if err := os.WriteFile(path, []byte("strict true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := SetKeyInFile(path, "log.level", "debug"); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, path); got != "strict true\nlog.level debug\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestSetKeyInFile_InsertsBeforeFirstSection(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")

	initial := "strict true\n\n[convert]\ntype int\ncolor never\n"
	if err := os.WriteFile(path, []byte(initial), 0644); err != nil {
		t.Fatalf("failed to write initial config: %v", err)
	}
	if err := SetKeyInFile(path, "color", "always"); err != nil {
		t.Fatalf("SetKeyInFile returned error: %v", err)
	}

	content := readFile(t, path)
	if strings.Index(content, "color always") > strings.Index(content, "[convert]") {
		t.Fatalf("expected the new key before the section, got %q", content)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath returned error: %v", err)
	}
	if v := cfg.GetString("color"); v != "always" {
		t.Fatalf("expected global color=always, got %q", v)
	}
	if v, _ := cfg.GetCommandOption("convert", "color"); v != "never" {
		t.Fatalf("section value must be untouched, got %q", v)
	}
}

func TestSetKeyInFile_EmptyValue(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")

	if err := SetKeyInFile(path, "color", ""); err != nil {
		t.Fatalf("SetKeyInFile returned error: %v", err)
	}
	if got := strings.TrimSpace(readFile(t, path)); got != "color" {
		t.Fatalf("expected 'color', got %q", got)
	}
}

func TestSetKeyInFile_NoTempFilesLeft(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	for _, kv := range [][2]string{{"strict", "false"}, {"color", "never"}, {"strict", "true"}} {
		if err := SetKeyInFile(path, kv[0], kv[1]); err != nil {
			t.Fatalf("SetKeyInFile(%q) returned error: %v", kv[0], err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the config file, got %v", entries)
	}
	if got := readFile(t, path); got != "strict true\ncolor never" {
		t.Fatalf("unexpected content %q", got)
	}
}
