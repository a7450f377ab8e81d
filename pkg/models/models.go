package models

import (
	"path/filepath"
	"strings"
	"time"
)

// Project represents one encoded directory under the Claude Code projects
// root, together with its best-effort resolution back to a real path.
type Project struct {
	DirPath      string // encoded directory inside the projects root
	Name         string // display name (~-collapsed where possible)
	RealPath     string // resolved working directory, best effort
	SessionCount int
	LastActivity time.Time // newest session file mtime, zero when no sessions
	Missing      bool      // resolution could not confirm the directory exists
}

// Session represents one recorded conversation log inside a project.
type Session struct {
	FilePath   string // the .jsonl log file
	SidecarDir string // same-stem auxiliary directory (may not exist)
	Timestamp  string // raw ISO-8601 timestamp of the first record, "" when none
	Date       string // formatted timestamp for display
	Size       int64  // log file size in bytes
	Message    string // first real user message, or a placeholder
	TrulyEmpty bool   // no user text, no timestamp, no assistant turn
}

// ID returns the session identifier: the log file name without extension.
func (s Session) ID() string {
	base := filepath.Base(s.FilePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Placeholder messages shown when a session carries no real user text.
const (
	EmptyPlaceholder   = "(empty session)"
	ResumedPlaceholder = "(resumed session)"
)

// IsPlaceholder reports whether the session message is one of the synthetic
// placeholders rather than real user text.
func (s Session) IsPlaceholder() bool {
	return s.Message == EmptyPlaceholder || s.Message == ResumedPlaceholder
}

// SortMode orders the project list.
type SortMode string

const (
	SortByName   SortMode = "name"
	SortByChats  SortMode = "chats"
	SortByRecent SortMode = "recent"
)

var sortCycle = []SortMode{SortByName, SortByChats, SortByRecent}

// ParseSortMode maps a persisted string to a sort mode, defaulting to name.
func ParseSortMode(s string) SortMode {
	for _, m := range sortCycle {
		if s == string(m) {
			return m
		}
	}
	return SortByName
}

// Next returns the following mode in the tab cycle.
func (m SortMode) Next() SortMode {
	for i, mode := range sortCycle {
		if mode == m {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return SortByName
}

// Label returns the human-readable name shown in the header.
func (m SortMode) Label() string {
	switch m {
	case SortByChats:
		return "Most chats"
	case SortByRecent:
		return "Recent"
	default:
		return "A-Z"
	}
}
