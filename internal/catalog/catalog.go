// Package catalog enumerates the Claude Code projects root and produces one
// summary record per encoded project directory.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/strrl/claude-chats/internal/encoding"
	"github.com/strrl/claude-chats/internal/resolve"
	"github.com/strrl/claude-chats/pkg/models"
)

// jbRoot is the jailbreak bootstrap prefix on rootless iOS devices. Paths
// under its resolved location display as /var/jb/... instead of the
// symlink target.
const jbRoot = "/var/jb"

// Scanner builds project records for one projects root.
type Scanner struct {
	Root     string // the projects directory, e.g. ~/.claude/projects
	Resolver resolve.Resolver
}

// NewScanner builds a scanner over the given projects root using the default
// resolver.
func NewScanner(root string) Scanner {
	return Scanner{Root: root, Resolver: resolve.New()}
}

// Scan lists every project directory under the root. Entries that cannot be
// read are skipped, never aborting the scan. A project with zero sessions is
// still returned so it can be cleaned up later.
func (s Scanner) Scan() ([]models.Project, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, err
	}

	var projects []models.Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirPath := filepath.Join(s.Root, entry.Name())
		count, newest, err := countSessions(dirPath)
		if err != nil {
			continue
		}

		real := s.Resolver.Resolve(entry.Name())
		name, missing := s.displayName(entry.Name(), real)

		projects = append(projects, models.Project{
			DirPath:      dirPath,
			Name:         name,
			RealPath:     real,
			SessionCount: count,
			LastActivity: newest,
			Missing:      missing,
		})
	}
	return projects, nil
}

// displayName derives the human-facing project name from the resolved path:
// collapsed to ~ under the home directory, aliased under /var/jb, absolute
// otherwise. The missing flag marks projects whose source folder no longer
// exists on disk.
func (s Scanner) displayName(encoded, real string) (name string, missing bool) {
	home := s.Resolver.Home()

	if jb := resolvedJBRoot(); jb != "" && strings.HasPrefix(real, jb) {
		suffix := real[len(jb):]
		if suffix == "" {
			return jbRoot, false
		}
		return jbRoot + suffix, false
	}

	if real == home {
		// Either this genuinely is the home project, or resolution fell all
		// the way back. Distinguish by the encoded name.
		prefix := encoding.HomePrefix(home)
		if encoded == encoding.Separator+prefix || encoded == prefix {
			return "~", false
		}
		full := encoding.Separator + prefix + encoding.Separator
		tail := encoded
		if strings.HasPrefix(encoded, full) {
			tail = encoded[len(full):]
		}
		return "~/" + tail, true
	}

	if strings.HasPrefix(real, home+string(os.PathSeparator)) {
		return "~/" + real[len(home)+1:], !isDir(real)
	}
	return real, !isDir(real)
}

// countSessions counts the immediate .jsonl files and tracks the newest
// modification time among them.
func countSessions(dir string) (count int, newest time.Time, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, time.Time{}, err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		count++
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	return count, newest, nil
}

// Sort orders projects by the given mode. The sort is stable and does not
// mutate its input.
func Sort(projects []models.Project, mode models.SortMode) []models.Project {
	sorted := make([]models.Project, len(projects))
	copy(sorted, projects)

	switch mode {
	case models.SortByChats:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].SessionCount != sorted[j].SessionCount {
				return sorted[i].SessionCount > sorted[j].SessionCount
			}
			return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
		})
	case models.SortByRecent:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].LastActivity.After(sorted[j].LastActivity)
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
		})
	}
	return sorted
}

// resolvedJBRoot returns the symlink-resolved /var/jb location, or "" when
// the host has no such root.
func resolvedJBRoot() string {
	if _, err := os.Lstat(jbRoot); err != nil {
		return ""
	}
	real, err := filepath.EvalSymlinks(jbRoot)
	if err != nil {
		return ""
	}
	return real
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
