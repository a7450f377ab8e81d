// Package resolve recovers real filesystem paths from the lossy encoded
// directory names under the Claude Code projects root. Because the encoding
// collapses every special character to a hyphen, decoding is a best-effort
// search over the live filesystem, not an algebraic inverse.
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/strrl/claude-chats/internal/encoding"
)

// Resolver turns encoded project names back into real directories.
// The zero value is not usable; construct with New.
type Resolver struct {
	home string
}

// New builds a resolver rooted at the current user's home directory.
func New() Resolver {
	home, err := os.UserHomeDir()
	if err != nil {
		home = string(os.PathSeparator)
	}
	return Resolver{home: home}
}

// NewWithHome builds a resolver with an explicit home directory. Used by
// tests and by callers that already looked the home directory up.
func NewWithHome(home string) Resolver {
	return Resolver{home: home}
}

// Home returns the home directory the resolver falls back to.
func (r Resolver) Home() string { return r.home }

// Resolve maps an encoded project directory name to a real path. It never
// fails: when nothing on disk matches, the home directory is the path of
// last resort. Strategies in order, first hit wins:
//
//  1. direct decode: hyphens become path separators
//  2. filesystem-guided search, longest run of encoded parts first
//  3. home-prefix stripping
func (r Resolver) Resolve(encoded string) string {
	if dir := directDecode(encoded); dir != "" {
		return dir
	}

	root, remaining := splitRoot(encoded)
	if remaining != "" {
		parts := strings.Split(remaining, encoding.Separator)
		if resolved := matchParts(root, parts); resolved != "" && isDir(resolved) {
			return resolved
		}
	}

	return r.homeFallback(encoded)
}

// directDecode replaces separators with path separators and returns the
// result only when that directory actually exists.
func directDecode(encoded string) string {
	var candidate string
	if encoding.IsWindowsDriveForm(encoded) {
		candidate = encoded[:1] + ":/" + strings.ReplaceAll(encoded[3:], encoding.Separator, "/")
	} else {
		candidate = strings.ReplaceAll(encoded, encoding.Separator, "/")
	}
	candidate = filepath.FromSlash(candidate)
	if isDir(candidate) {
		return candidate
	}
	return ""
}

// splitRoot extracts the search root (drive root or filesystem root) and the
// remaining encoded token. An empty remainder means guided resolution does
// not apply, e.g. a relative-looking name.
func splitRoot(encoded string) (root, remaining string) {
	switch {
	case encoding.IsWindowsDriveForm(encoded):
		return encoded[:1] + ":" + string(os.PathSeparator), encoded[3:]
	case strings.HasPrefix(encoded, encoding.Separator):
		return string(os.PathSeparator), encoded[1:]
	default:
		return "", ""
	}
}

// matchParts greedily matches the longest run of leading parts against real
// directory entries by re-encoding each entry name, recursing into the match
// with whatever is left. Longer runs win over shorter ones so that real
// segments containing hyphens, spaces, or dots are preferred over accidental
// prefix matches. At equal length the first enumeration match wins.
func matchParts(root string, parts []string) string {
	if len(parts) == 0 {
		return root
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}
	for length := len(parts); length >= 1; length-- {
		target := strings.Join(parts[:length], encoding.Separator)
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if encoding.Encode(entry.Name()) != target {
				continue
			}
			if resolved := matchParts(filepath.Join(root, entry.Name()), parts[length:]); resolved != "" {
				return resolved
			}
		}
	}
	return ""
}

// homeFallback strips the encoded home prefix and rejoins the remainder onto
// the real home directory. When even that does not exist, the home directory
// itself is returned.
func (r Resolver) homeFallback(encoded string) string {
	prefix := encoding.HomePrefix(r.home)
	var suffix string
	switch {
	case strings.HasPrefix(encoded, encoding.Separator+prefix+encoding.Separator):
		suffix = encoded[len(prefix)+2:]
	case strings.HasPrefix(encoded, prefix+encoding.Separator):
		suffix = encoded[len(prefix)+1:]
	}
	if suffix == "" {
		return r.home
	}
	candidate := filepath.Join(r.home, strings.ReplaceAll(suffix, encoding.Separator, string(os.PathSeparator)))
	if isDir(candidate) {
		return candidate
	}
	return r.home
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
