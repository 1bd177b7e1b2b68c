package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds an identifier for fuzzy matching: case is lowered and
// separators (_, -, space) are dropped, so "maxConnections",
// "max_connections" and "MAX-CONNECTIONS" all become "maxconnections".
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// NormalizePath applies NormalizeIdent to every dot-separated segment.
func NormalizePath(path string) string {
	segments := strings.Split(path, ".")
	for i, s := range segments {
		segments[i] = NormalizeIdent(s)
	}

	return strings.Join(segments, ".")
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
