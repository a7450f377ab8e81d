// Package summary labels sessions with short AI-generated topics via the
// Gemini API. Failures of any kind degrade to "no summary available" — the
// summarizer must never block navigation.
package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/strrl/claude-chats/internal/store"
	"github.com/strrl/claude-chats/pkg/models"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash-lite:generateContent"

	// fetchWorkers bounds concurrent summary requests.
	fetchWorkers = 4
)

// Client talks to the summarization endpoint.
type Client struct {
	APIKey  string
	BaseURL string // overridable for tests; defaults to the Gemini endpoint
	HTTP    *http.Client
}

// NewClient builds a client with a 15 second request timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Summarize asks for a 3-6 word topic for one message. An empty string means
// no summary is available.
func (c *Client) Summarize(message string) string {
	prompt := fmt.Sprintf(
		"Summarize this chat message in 3-6 words. Just the topic, no fluff:\n\n%s", message)
	req := generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}

	payload, err := json.Marshal(req)
	if err != nil {
		return ""
	}

	url := fmt.Sprintf("%s?key=%s", c.BaseURL, c.APIKey)
	resp, err := c.HTTP.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ""
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	return strings.Trim(text, `"`)
}

// Progress receives completion counts while a batch is being summarized.
type Progress func(done, total int)

// FillMissing fetches summaries for every session that has real user text
// and no cache entry yet, with at most fetchWorkers requests in flight.
// Existing cache entries are never overwritten. The updated cache is saved
// before returning.
func (c *Client) FillMissing(cache *store.SummaryCache, sessions []models.Session, progress Progress) {
	type item struct {
		id      string
		message string
	}
	var missing []item
	for _, s := range sessions {
		if s.IsPlaceholder() {
			continue
		}
		if _, ok := cache.Get(s.ID()); ok {
			continue
		}
		missing = append(missing, item{id: s.ID(), message: s.Message})
	}
	if len(missing) == 0 {
		return
	}

	var (
		mu   sync.Mutex
		done int
	)
	if progress != nil {
		progress(0, len(missing))
	}

	var g errgroup.Group
	g.SetLimit(fetchWorkers)
	for _, it := range missing {
		it := it
		g.Go(func() error {
			result := c.Summarize(it.message)
			mu.Lock()
			done++
			if result != "" {
				cache.Put(it.id, result)
			}
			if progress != nil {
				progress(done, len(missing))
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	_ = cache.Save()
}

// KeyFilePath returns ~/.gemini_api_key.
func KeyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gemini_api_key"
	}
	return filepath.Join(home, ".gemini_api_key")
}

// LoadKey reads the stored API key, returning "" when none is configured.
func LoadKey() string {
	data, err := os.ReadFile(KeyFilePath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SaveKey stores the API key for later runs.
func SaveKey(key string) error {
	return os.WriteFile(KeyFilePath(), []byte(key+"\n"), 0o600)
}
