// Package pathutil classifies and resolves the location strings a CSS
// pipeline passes around: URLs stay verbatim, absolute paths are cleaned,
// and relative paths resolve against a base directory or the working
// directory. Resolution is lenient and never errors; a path that cannot be
// made absolute is returned cleaned instead.
package pathutil

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Kind tags the shape of a location string.
type Kind int

const (
	// KindURL is a string with an explicit scheme, such as https:// or file://.
	KindURL Kind = iota
	// KindAbsolute is an absolute filesystem path.
	KindAbsolute
	// KindRelative is everything else.
	KindRelative
)

var urlPattern = regexp.MustCompile(`^\w+://`)

// Classify tags a location string as a URL, an absolute path or a relative
// path. All resolution decisions flow from this one function. Data URIs
// have no "//" authority but are still URLs.
func Classify(s string) Kind {
	switch {
	case urlPattern.MatchString(s) || strings.HasPrefix(s, "data:"):
		return KindURL
	case filepath.IsAbs(s):
		return KindAbsolute
	default:
		return KindRelative
	}
}

// Resolve makes a location absolute. URLs pass through unchanged and
// absolute paths are cleaned. Relative paths are joined to base, which is
// itself made absolute first; with an empty base the working directory is
// used. Resolve is idempotent.
func Resolve(s, base string) string {
	switch Classify(s) {
	case KindURL:
		return s
	case KindAbsolute:
		return filepath.Clean(s)
	default:
		if base == "" {
			base = "."
		}
		if Classify(base) == KindURL {
			return strings.TrimSuffix(base, "/") + "/" + s
		}
		if Classify(base) == KindRelative {
			abs, err := filepath.Abs(base)
			if err != nil {
				return filepath.Clean(filepath.Join(base, s))
			}
			base = abs
		}
		return filepath.Join(base, s)
	}
}
