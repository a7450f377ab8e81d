package index

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/strrl/claude-chats/pkg/models"
)

const (
	// maxScanBytes bounds how much of a log is read for metadata. Huge
	// sessions front-load everything we need into the first records.
	maxScanBytes = 200_000

	// messageBudget is the display length cap for the first user message.
	messageBudget = 120
)

// systemMarkers identify tool-control and system-injected user records that
// must not be shown as the user's first message.
var systemMarkers = []string{"<local-command-", "<command-name>", "<system-reminder>"}

// rawRecord is the closed view of one log line. Fields missing or mistyped
// in the JSON simply stay zero; nothing here ever raises on malformed input.
type rawRecord struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp"`
	Message   *rawMessage `json:"message"`
}

type rawMessage struct {
	Content json.RawMessage `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// parseSession extracts metadata from a single log file. Returns nil when
// the file cannot be read at all; such sessions are dropped from the batch.
func parseSession(path string) *models.Session {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var (
		firstUserMsg string
		timestamp    string
		hasAssistant bool
		bytesRead    int
	)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		bytesRead += len(line) + 1
		if bytesRead > maxScanBytes {
			break
		}
		if len(line) == 0 {
			continue
		}

		var rec rawRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if timestamp == "" && rec.Timestamp != "" {
			timestamp = rec.Timestamp
		}
		if rec.Type == "assistant" {
			hasAssistant = true
		}
		if rec.Type == "user" && firstUserMsg == "" && rec.Message != nil {
			if text := extractUserText(rec.Message.Content); text != "" {
				firstUserMsg = text
				break
			}
		}
	}
	// A scanner error (oversized line, I/O hiccup) just ends the scan early;
	// whatever was collected so far still describes the session.

	firstUserMsg = flatten(firstUserMsg)
	if len(firstUserMsg) > messageBudget {
		firstUserMsg = firstUserMsg[:messageBudget-3] + "..."
	}

	trulyEmpty := false
	if firstUserMsg == "" {
		if timestamp != "" || hasAssistant {
			firstUserMsg = models.ResumedPlaceholder
		} else {
			firstUserMsg = models.EmptyPlaceholder
			trulyEmpty = true
		}
	}

	return &models.Session{
		FilePath:   path,
		SidecarDir: strings.TrimSuffix(path, ".jsonl"),
		Timestamp:  timestamp,
		Date:       formatTimestamp(timestamp),
		Size:       info.Size(),
		Message:    firstUserMsg,
		TrulyEmpty: trulyEmpty,
	}
}

// extractUserText pulls display text out of a user record's content field,
// which is either a plain string or an array of typed blocks. System and
// tool-control messages yield "".
func extractUserText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		text = strings.TrimSpace(text)
		if text == "" || isSystemText(text) {
			return ""
		}
		return text
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	for _, block := range blocks {
		if block.Type != "text" {
			continue
		}
		t := strings.TrimSpace(block.Text)
		if t != "" && !isSystemText(t) {
			return t
		}
	}
	return ""
}

func isSystemText(text string) bool {
	for _, marker := range systemMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// flatten collapses a message to a single display line.
func flatten(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

// formatTimestamp renders an ISO-8601 timestamp for display, falling back to
// a raw prefix when it does not parse.
func formatTimestamp(ts string) string {
	if ts == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Format("2006-01-02 15:04")
	}
	if len(ts) > 16 {
		return ts[:16]
	}
	return ts
}
