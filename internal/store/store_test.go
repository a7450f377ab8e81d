package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/strrl/claude-chats/pkg/models"
)

func TestLoadConfig_Missing(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if cfg.SortMode() != models.SortByName {
		t.Errorf("default sort = %v, want name", cfg.SortMode())
	}
	if cfg.SkipPermissions || cfg.AISummaries {
		t.Error("defaults should be false")
	}
}

func TestLoadConfig_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := LoadConfig(path)
	if cfg.SortMode() != models.SortByName {
		t.Error("corrupt config must fall back to defaults")
	}
}

func TestConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := LoadConfig(path)
	cfg.SetSortMode(models.SortByChats)
	cfg.SkipPermissions = true
	cfg.AISummaries = true
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := LoadConfig(path)
	if loaded.SortMode() != models.SortByChats {
		t.Errorf("sort = %v, want chats", loaded.SortMode())
	}
	if !loaded.SkipPermissions || !loaded.AISummaries {
		t.Error("flags not persisted")
	}
}

func TestConfig_UnknownSortFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"sort":"bogus"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := LoadConfig(path).SortMode(); got != models.SortByName {
		t.Errorf("sort = %v, want name", got)
	}
}

func TestSummaryCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summaries.json")

	cache := LoadSummaryCache(path)
	cache.Put("abc", "Fix login bug")
	cache.Put("def", "Refactor parser")
	if err := cache.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := LoadSummaryCache(path)
	if loaded.Len() != 2 {
		t.Fatalf("len = %d, want 2", loaded.Len())
	}
	if got, ok := loaded.Get("abc"); !ok || got != "Fix login bug" {
		t.Errorf("Get(abc) = %q, %v", got, ok)
	}
}

func TestSummaryCache_PutNeverOverwrites(t *testing.T) {
	cache := LoadSummaryCache(filepath.Join(t.TempDir(), "summaries.json"))
	cache.Put("abc", "first")
	cache.Put("abc", "second")
	if got, _ := cache.Get("abc"); got != "first" {
		t.Errorf("Put overwrote existing entry: %q", got)
	}
	if cache.Len() != 1 {
		t.Errorf("len = %d, want 1", cache.Len())
	}
}

func TestSummaryCache_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summaries.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	cache := LoadSummaryCache(path)
	if cache.Len() != 0 {
		t.Errorf("corrupt cache should load empty, len = %d", cache.Len())
	}
}
