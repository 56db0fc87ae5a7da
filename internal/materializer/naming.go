package materializer

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// ExtensionStrategy selects how an image's filename suffix is derived from its URL.
type ExtensionStrategy string

const (
	// ExtensionSlice takes the last four bytes of the URL verbatim, so ".jpg"
	// survives but ".jpeg" becomes "jpeg" and "a.js" becomes "a.js".
	ExtensionSlice ExtensionStrategy = "slice"
	// ExtensionPath uses the extension of the URL path, or none.
	ExtensionPath ExtensionStrategy = "path"
)

// ParseExtensionStrategy accepts "slice", "path", or "" (slice).
func ParseExtensionStrategy(s string) (ExtensionStrategy, error) {
	switch ExtensionStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExtensionSlice:
		return ExtensionSlice, nil
	case ExtensionPath:
		return ExtensionPath, nil
	}
	return "", fmt.Errorf("unknown extension strategy %q (want %q or %q)", s, ExtensionSlice, ExtensionPath)
}

// ImageName returns the local filename for the i-th URL.
func ImageName(i int, rawURL string, strategy ExtensionStrategy) string {
	return "img" + strconv.Itoa(i) + extension(rawURL, strategy)
}

func extension(rawURL string, strategy ExtensionStrategy) string {
	if strategy == ExtensionPath {
		u, err := url.Parse(rawURL)
		if err != nil {
			return ""
		}
		return path.Ext(u.Path)
	}
	if len(rawURL) < 4 {
		return rawURL
	}
	return rawURL[len(rawURL)-4:]
}
