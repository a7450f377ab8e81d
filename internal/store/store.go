// Package store persists the two small JSON documents the browser keeps:
// user preferences and the session-summary cache. Each document is read and
// written wholesale; a missing or corrupt file is an empty store, never an
// error.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/strrl/claude-chats/pkg/models"
)

// Config holds the persisted preferences.
type Config struct {
	Sort            string `json:"sort,omitempty"`
	SkipPermissions bool   `json:"skip_permissions,omitempty"`
	AISummaries     bool   `json:"ai_summaries,omitempty"`

	path string
}

// LoadConfig reads the preferences document, returning defaults when the
// file is absent or unparseable.
func LoadConfig(path string) *Config {
	cfg := &Config{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return &Config{path: path}
	}
	return cfg
}

// Save rewrites the whole preferences document.
func (c *Config) Save() error {
	return writeDocument(c.path, c)
}

// SortMode returns the persisted sort mode, defaulting to name order.
func (c *Config) SortMode() models.SortMode {
	return models.ParseSortMode(c.Sort)
}

// SetSortMode records a new sort mode.
func (c *Config) SetSortMode(m models.SortMode) {
	c.Sort = string(m)
}

// SummaryCache maps session ids to short AI-generated labels.
type SummaryCache struct {
	entries map[string]string
	path    string
}

// LoadSummaryCache reads the cache document, returning an empty cache when
// the file is absent or unparseable.
func LoadSummaryCache(path string) *SummaryCache {
	cache := &SummaryCache{entries: make(map[string]string), path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return cache
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return cache
	}
	cache.entries = entries
	return cache
}

// Get returns the cached summary for a session id, if any.
func (s *SummaryCache) Get(sessionID string) (string, bool) {
	summary, ok := s.entries[sessionID]
	return summary, ok
}

// Put records a summary for a session id. An existing entry is never
// overwritten.
func (s *SummaryCache) Put(sessionID, summary string) {
	if _, exists := s.entries[sessionID]; exists {
		return
	}
	s.entries[sessionID] = summary
}

// Len returns the number of cached summaries.
func (s *SummaryCache) Len() int { return len(s.entries) }

// Save rewrites the whole cache document.
func (s *SummaryCache) Save() error {
	return writeDocument(s.path, s.entries)
}

// writeDocument marshals v and replaces the document at path, creating the
// parent directory when needed.
func writeDocument(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
