// Package materializer downloads an ordered list of image URLs into a
// directory as img0, img1, ... and writes an index.html that shows them.
package materializer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raysh454/logpuzzle/internal/fsutil"
	"github.com/raysh454/logpuzzle/internal/logging"
)

// Getter retrieves the raw bytes of one resource.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type Options struct {
	Extension ExtensionStrategy
}

type Materializer struct {
	getter Getter
	opts   Options
	logger logging.Logger
}

func New(getter Getter, opts Options, logger logging.Logger) *Materializer {
	if opts.Extension == "" {
		opts.Extension = ExtensionSlice
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Materializer{
		getter: getter,
		opts:   opts,
		logger: logger.With(logging.Field{Key: "component", Value: "materializer"}),
	}
}

// Materialize creates destDir if needed, fetches every URL in order into
// destDir/img<i><ext>, then writes destDir/index.html. It stops at the first
// failure and leaves already written files in place. The returned names are
// the files written so far.
func (m *Materializer) Materialize(ctx context.Context, urls []string, destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, &DirectoryCreationError{Dir: destDir, Err: err}
	}

	names := make([]string, 0, len(urls))
	for i, u := range urls {
		name := ImageName(i, u, m.opts.Extension)
		if !plainName(name) {
			return names, &ImageNameError{URL: u, Name: name}
		}

		m.logger.Info("retrieving image",
			logging.Field{Key: "index", Value: i},
			logging.Field{Key: "url", Value: u},
			logging.Field{Key: "file", Value: name})

		body, err := m.getter.Get(ctx, u)
		if err != nil {
			return names, err
		}
		dst := filepath.Join(destDir, name)
		if err := fsutil.AtomicWriteFile(dst, body, 0644); err != nil {
			return names, fmt.Errorf("write %s: %w", dst, err)
		}
		names = append(names, name)
	}

	index := filepath.Join(destDir, IndexFile)
	if err := fsutil.AtomicWriteFile(index, []byte(RenderIndex(names)), 0644); err != nil {
		return names, fmt.Errorf("write %s: %w", index, err)
	}

	m.logger.Info("materialized images",
		logging.Field{Key: "dir", Value: destDir},
		logging.Field{Key: "count", Value: len(names)})
	return names, nil
}

// plainName reports whether name is written to exactly destDir/name.
func plainName(name string) bool {
	return !strings.ContainsRune(name, '/') &&
		!strings.ContainsRune(name, filepath.Separator) &&
		filepath.Base(name) == name
}
