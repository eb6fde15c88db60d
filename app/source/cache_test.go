package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCache_MissingDirectoryUsesDefault(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "does-not-exist"))

	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if cache.GetSourceCount() != 1 {
		t.Fatalf("Expected 1 default source, got %d", cache.GetSourceCount())
	}

	src, err := cache.GetSource("bitcoin")
	if err != nil {
		t.Fatalf("Expected default source: %v", err)
	}
	if src.Query != "bitcoin" {
		t.Errorf("Expected default query 'bitcoin', got '%s'", src.Query)
	}
	if src.Language != "en" {
		t.Errorf("Expected default language 'en', got '%s'", src.Language)
	}
	if !src.IsEnabled() {
		t.Error("Default source should be enabled")
	}
}

func TestCache_LoadsYAMLFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ethereum.yml", "query: ethereum\nlanguage: de\npage_size: 25\n")
	writeFile(t, dir, "solar.yaml", "query: solar energy\nenabled: false\n")

	cache := NewCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if cache.GetSourceCount() != 2 {
		t.Fatalf("Expected 2 sources, got %d", cache.GetSourceCount())
	}

	eth, err := cache.GetSource("ethereum")
	if err != nil {
		t.Fatalf("GetSource failed: %v", err)
	}
	if eth.Language != "de" {
		t.Errorf("Expected language 'de', got '%s'", eth.Language)
	}
	if eth.PageSize != 25 {
		t.Errorf("Expected page size 25, got %d", eth.PageSize)
	}
	if !eth.IsEnabled() {
		t.Error("Source without enabled flag should default to enabled")
	}

	solar, err := cache.GetSource("solar")
	if err != nil {
		t.Fatalf("GetSource failed: %v", err)
	}
	if solar.IsEnabled() {
		t.Error("Source with enabled: false should be disabled")
	}
	if solar.Language != "en" {
		t.Errorf("Expected defaulted language 'en', got '%s'", solar.Language)
	}
}

func TestCache_RejectsMissingQuery(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yml", "language: en\n")

	cache := NewCache(dir)
	if err := cache.Run(); err == nil {
		t.Error("Expected error for source config without a query")
	}
}

func TestCache_GetSourcesOrdered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zinc.yml", "query: zinc\n")
	writeFile(t, dir, "argon.yml", "query: argon\n")

	cache := NewCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	sources := cache.GetSources()
	if len(sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(sources))
	}
	if sources[0].Name != "argon" || sources[1].Name != "zinc" {
		t.Errorf("Expected sources in name order, got %s, %s", sources[0].Name, sources[1].Name)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}
