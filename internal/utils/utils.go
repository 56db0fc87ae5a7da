package utils

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// CanonicalHost normalizes an explicitly configured hostname: it trims
// whitespace, lowercases, converts IDN labels to punycode and keeps a port
// if one is given. Scheme prefixes and paths are rejected.
//
// Examples:
//
//	"Code.Google.com"     → "code.google.com"
//	"bücher.example:8080" → "xn--bcher-kva.example:8080"
//	"https://x.com"       → error
func CanonicalHost(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyHost
	}
	if strings.ContainsAny(raw, "/?#@ ") {
		return "", fmt.Errorf("host %q: must be a bare hostname", raw)
	}

	host, port := raw, ""
	if h, p, err := net.SplitHostPort(raw); err == nil {
		host, port = h, p
	}

	ascii, err := idna.Lookup.ToASCII(strings.ToLower(host))
	if err != nil {
		return "", fmt.Errorf("host %q: %w", raw, err)
	}
	if port != "" {
		return net.JoinHostPort(ascii, port), nil
	}
	return ascii, nil
}

var ErrEmptyHost = fmt.Errorf("empty host")
