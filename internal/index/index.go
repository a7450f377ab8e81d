// Package index parses the session logs of one project into lightweight
// metadata records: first user message, timestamp, size, and emptiness.
package index

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/strrl/claude-chats/pkg/models"
)

// parseWorkers bounds the per-project parsing pool. Each worker owns exactly
// one log file; aggregation happens after all workers return.
const parseWorkers = 8

// Load parses every session log in projectDir in parallel and returns the
// records ordered by timestamp descending, sessions without a timestamp
// last. Logs that fail to parse are dropped from the result.
func Load(projectDir string) ([]models.Session, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, filepath.Join(projectDir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, nil
	}

	results := make([]*models.Session, len(files))
	var g errgroup.Group
	g.SetLimit(parseWorkers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			results[i] = parseSession(file)
			return nil
		})
	}
	// Workers never return errors: a bad file only drops its own record.
	_ = g.Wait()

	sessions := make([]models.Session, 0, len(files))
	for _, r := range results {
		if r != nil {
			sessions = append(sessions, *r)
		}
	}

	// ReadDir order is deterministic, so the stable sort keeps ties in
	// encounter order. "" sorts below any ISO-8601 timestamp.
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Timestamp > sessions[j].Timestamp
	})
	return sessions, nil
}

// Remove deletes a session's log file and, when present, its same-stem
// sidecar directory. Both removals are always attempted; the first error is
// returned. A missing sidecar directory is not an error.
func Remove(s models.Session) error {
	err := os.Remove(s.FilePath)
	if s.SidecarDir != "" {
		if info, statErr := os.Stat(s.SidecarDir); statErr == nil && info.IsDir() {
			if rmErr := os.RemoveAll(s.SidecarDir); rmErr != nil && err == nil {
				err = rmErr
			}
		}
	}
	return err
}
