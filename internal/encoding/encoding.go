// Package encoding implements the directory-name scheme Claude Code uses to
// store project logs: every character outside [A-Za-z0-9] in a real path
// becomes a hyphen. The scheme is lossy, so there is no Decode here — turning
// an encoded name back into a real path needs filesystem context (see
// internal/resolve).
package encoding

import (
	"regexp"
	"strings"
)

// Separator is the replacement character for everything non-alphanumeric.
const Separator = "-"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Encode maps a path or path segment to its on-disk encoded form.
// Deterministic and total, but not injective: "My Project" and "My-Project"
// both encode to "My-Project".
func Encode(segment string) string {
	return unsafeChars.ReplaceAllString(segment, Separator)
}

// IsWindowsDriveForm reports whether an encoded name carries a drive-letter
// prefix, e.g. "C--Users-korbo-Docs" for C:\Users\korbo\Docs.
func IsWindowsDriveForm(token string) bool {
	if len(token) < 3 || token[1:3] != Separator+Separator {
		return false
	}
	c := token[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// HomePrefix returns the encoded form of the home directory with the leading
// separator trimmed, e.g. /home/alice -> "home-alice". Encoded project names
// under the home directory start with Separator+HomePrefix.
func HomePrefix(home string) string {
	return strings.TrimLeft(Encode(home), Separator)
}
