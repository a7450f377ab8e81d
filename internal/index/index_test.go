package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strrl/claude-chats/pkg/models"
)

func writeLog(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_OrdersByTimestampDescending(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "a.jsonl",
		`{"type":"user","timestamp":"2024-01-01T10:00:00Z","message":{"content":"first"}}`)
	writeLog(t, dir, "b.jsonl",
		`{"type":"user","timestamp":"2024-06-01T10:00:00Z","message":{"content":"second"}}`)
	writeLog(t, dir, "c.jsonl",
		`{"type":"user","message":{"content":"no clock"}}`)

	sessions, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("got %d sessions, want 3", len(sessions))
	}
	if sessions[0].Message != "second" || sessions[1].Message != "first" {
		t.Errorf("timestamp order wrong: %q, %q", sessions[0].Message, sessions[1].Message)
	}
	if sessions[2].Message != "no clock" {
		t.Errorf("session without timestamp must sort last, got %q", sessions[2].Message)
	}
}

func TestLoad_EmptyDir(t *testing.T) {
	sessions, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sessions != nil {
		t.Errorf("expected nil for a project without logs, got %v", sessions)
	}
}

func TestParseSession_FirstUserMessage(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "s.jsonl",
		`{"type":"summary","summary":"old"}`,
		`{"type":"user","timestamp":"2024-03-05T09:30:00Z","message":{"content":"<command-name>clear</command-name>"}}`,
		`{"type":"user","timestamp":"2024-03-05T09:31:00Z","message":{"content":"fix the login bug"}}`,
		`{"type":"assistant","timestamp":"2024-03-05T09:31:05Z","message":{"content":[{"type":"text","text":"sure"}]}}`)

	s := parseSession(path)
	if s == nil {
		t.Fatal("parseSession returned nil")
	}
	if s.Message != "fix the login bug" {
		t.Errorf("message = %q, want real user text after the command marker", s.Message)
	}
	if s.Timestamp != "2024-03-05T09:30:00Z" {
		t.Errorf("timestamp = %q, want first record timestamp", s.Timestamp)
	}
	if s.Date != "2024-03-05 09:30" {
		t.Errorf("date = %q", s.Date)
	}
	if s.TrulyEmpty {
		t.Error("session with user text is not empty")
	}
}

func TestParseSession_BlockArrayContent(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "s.jsonl",
		`{"type":"user","timestamp":"2024-03-05T09:30:00Z","message":{"content":[{"type":"tool_result","content":"x"},{"type":"text","text":"  review this diff  "}]}}`)

	s := parseSession(path)
	if s.Message != "review this diff" {
		t.Errorf("message = %q", s.Message)
	}
}

func TestParseSession_Truncation(t *testing.T) {
	dir := t.TempDir()
	long := strings.Repeat("a", 300)
	path := writeLog(t, dir, "s.jsonl",
		`{"type":"user","timestamp":"2024-03-05T09:30:00Z","message":{"content":"`+long+`"}}`)

	s := parseSession(path)
	if len(s.Message) != messageBudget {
		t.Errorf("message length = %d, want %d", len(s.Message), messageBudget)
	}
	if !strings.HasSuffix(s.Message, "...") {
		t.Errorf("truncated message should end with ellipsis: %q", s.Message)
	}
}

func TestParseSession_MultilineFlattened(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "s.jsonl",
		`{"type":"user","timestamp":"2024-03-05T09:30:00Z","message":{"content":"line one\nline two"}}`)

	s := parseSession(path)
	if s.Message != "line one line two" {
		t.Errorf("message = %q", s.Message)
	}
}

func TestParseSession_Emptiness(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name       string
		lines      []string
		message    string
		trulyEmpty bool
	}{
		{
			name:       "zero records",
			lines:      []string{""},
			message:    models.EmptyPlaceholder,
			trulyEmpty: true,
		},
		{
			name: "only system markers, no timestamp",
			lines: []string{
				`{"type":"user","message":{"content":"<local-command-stdout>ok</local-command-stdout>"}}`,
			},
			message:    models.EmptyPlaceholder,
			trulyEmpty: true,
		},
		{
			name: "timestamp but no user text",
			lines: []string{
				`{"type":"summary","timestamp":"2024-01-01T00:00:00Z"}`,
			},
			message:    models.ResumedPlaceholder,
			trulyEmpty: false,
		},
		{
			name: "assistant turn without timestamp",
			lines: []string{
				`{"type":"assistant","message":{"content":[{"type":"text","text":"hello"}]}}`,
			},
			message:    models.ResumedPlaceholder,
			trulyEmpty: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLog(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".jsonl", tt.lines...)
			s := parseSession(path)
			if s == nil {
				t.Fatal("parseSession returned nil")
			}
			if s.Message != tt.message {
				t.Errorf("message = %q, want %q", s.Message, tt.message)
			}
			if s.TrulyEmpty != tt.trulyEmpty {
				t.Errorf("trulyEmpty = %v, want %v", s.TrulyEmpty, tt.trulyEmpty)
			}
		})
	}
}

func TestParseSession_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "s.jsonl",
		`{not json at all`,
		`{"type":"user","timestamp":"2024-03-05T09:30:00Z","message":{"content":"still works"}}`)

	s := parseSession(path)
	if s == nil {
		t.Fatal("parseSession returned nil")
	}
	if s.Message != "still works" {
		t.Errorf("message = %q", s.Message)
	}
}

func TestParseSession_MissingFile(t *testing.T) {
	if s := parseSession(filepath.Join(t.TempDir(), "nope.jsonl")); s != nil {
		t.Errorf("expected nil for unreadable file, got %+v", s)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"2024-03-05T09:30:12Z", "2024-03-05 09:30"},
		{"2024-03-05T09:30:12.123+02:00", "2024-03-05 09:30"},
		{"not-a-timestamp-but-quite-long", "not-a-timestamp-"},
		{"short", "short"},
	}
	for _, tt := range tests {
		if got := formatTimestamp(tt.in); got != tt.want {
			t.Errorf("formatTimestamp(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "s.jsonl", `{"type":"user","message":{"content":"x"}}`)
	sidecar := strings.TrimSuffix(path, ".jsonl")
	if err := os.MkdirAll(filepath.Join(sidecar, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := Remove(models.Session{FilePath: path, SidecarDir: sidecar}); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("log file still exists")
	}
	if _, err := os.Stat(sidecar); !os.IsNotExist(err) {
		t.Error("sidecar directory still exists")
	}
}

func TestRemove_NoSidecar(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "s.jsonl", `{}`)

	err := Remove(models.Session{FilePath: path, SidecarDir: strings.TrimSuffix(path, ".jsonl")})
	if err != nil {
		t.Fatalf("missing sidecar must not be an error: %v", err)
	}
}
