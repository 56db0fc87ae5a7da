// Package extractor pulls puzzle image URLs out of an Apache access log and
// orders them by the token embedded in each image name.
package extractor

import (
	"bufio"
	"cmp"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/raysh454/logpuzzle/internal/logging"
)

const (
	DefaultScheme = "https"
	DefaultMarker = "puzzle"

	// longest log line the scanner accepts
	maxLineBytes = 1024 * 1024
)

var (
	requestRe = regexp.MustCompile(`GET\s(\S+)`)
	sortKeyRe = regexp.MustCompile(`-(\w+)-(\w+)\.\w+`)
)

// Options controls how request paths become absolute URLs.
type Options struct {
	// Host overrides the hostname. Empty means derive it from the log filename.
	Host string
	// Scheme prefixes every URL. Defaults to DefaultScheme.
	Scheme string
	// Marker must start a segment of the request path and be followed by
	// '-', '.', '/' or the end of the path. Defaults to DefaultMarker.
	Marker string
}

type Extractor struct {
	opts     Options
	markerRe *regexp.Regexp
	logger   logging.Logger
}

func New(opts Options, logger logging.Logger) *Extractor {
	if opts.Scheme == "" {
		opts.Scheme = DefaultScheme
	}
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Extractor{
		opts:     opts,
		markerRe: markerPattern(opts.Marker),
		logger:   logger.With(logging.Field{Key: "component", Value: "extractor"}),
	}
}

// markerPattern matches marker at the start of a path segment, so
// "/~a/puzzle-b-c.jpg" and "/images/puzzle/a.jpg" qualify but
// "/not-a-puzzle.jpg" does not.
func markerPattern(marker string) *regexp.Regexp {
	return regexp.MustCompile(`(^|/)` + regexp.QuoteMeta(marker) + `([-./]|$)`)
}

// HostFromFilename returns everything after the first underscore in the base
// name of path, minus a trailing ".log".
//
// Examples:
//
//	logs/animal_code.google.com   → "code.google.com"
//	access_hostname.com.log       → "hostname.com"
//	access.log                    → InvalidFilenameError
func HostFromFilename(path string) (string, error) {
	name := filepath.Base(path)
	_, host, ok := strings.Cut(name, "_")
	host = strings.TrimSuffix(host, ".log")
	if !ok || host == "" {
		return "", &InvalidFilenameError{Filename: name}
	}
	return host, nil
}

// ReadURLs scans the log at path and returns its unique puzzle URLs sorted by
// SortKey. An empty log, or one without puzzle requests, yields an empty slice.
func (e *Extractor) ReadURLs(path string) ([]string, error) {
	host := e.opts.Host
	if host == "" {
		var err error
		host, err = HostFromFilename(path)
		if err != nil {
			return nil, err
		}
	}
	prefix := e.opts.Scheme + "://" + host

	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	set := NewURLSet()
	lines, matched, dups := 0, 0, 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lines++
		m := requestRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		if !e.markerRe.MatchString(m[1]) {
			continue
		}
		matched++
		if !set.Add(prefix + m[1]) {
			dups++
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			e.logger.Warn("log line exceeds scanner limit",
				logging.Field{Key: "path", Value: path},
				logging.Field{Key: "line", Value: lines + 1})
		}
		return nil, &FileAccessError{Path: path, Err: err}
	}

	urls := set.Keys()
	SortURLs(urls)

	e.logger.Debug("extracted puzzle urls",
		logging.Field{Key: "path", Value: path},
		logging.Field{Key: "host", Value: host},
		logging.Field{Key: "lines", Value: lines},
		logging.Field{Key: "matches", Value: matched},
		logging.Field{Key: "duplicates", Value: dups},
		logging.Field{Key: "unique", Value: len(urls)})

	return urls, nil
}

// SortKey returns the second token of a "-<token1>-<token2>.<ext>" run in url,
// or url itself when there is none.
func SortKey(url string) string {
	if m := sortKeyRe.FindStringSubmatch(url); m != nil {
		return m[2]
	}
	return url
}

// SortURLs orders urls in place by SortKey, then by the full URL.
func SortURLs(urls []string) {
	slices.SortFunc(urls, func(a, b string) int {
		return cmp.Or(
			strings.Compare(SortKey(a), SortKey(b)),
			strings.Compare(a, b),
		)
	})
}
