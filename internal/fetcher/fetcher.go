package fetcher

import (
	"context"
	"errors"
	"net/url"

	"github.com/raysh454/logpuzzle/internal/logging"
	"github.com/raysh454/logpuzzle/internal/webclient"
)

// Fetcher retrieves one resource at a time. It never retries.
type Fetcher struct {
	wc     webclient.WebClient
	logger logging.Logger
}

// New creates a new Fetcher with the given webclient and logger
func New(wc webclient.WebClient, logger logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Fetcher{
		wc:     wc,
		logger: logger.With(logging.Field{Key: "component", Value: "fetcher"}),
	}
}

// Get returns the body of rawURL. Anything short of a 2xx response with a
// readable body is a *FetchError.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if f.wc == nil {
		return nil, &FetchError{URL: rawURL, Err: errors.New("webclient is nil")}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &FetchError{URL: rawURL, Err: errors.New("unsupported scheme " + u.Scheme)}
	}

	resp, err := f.wc.Get(ctx, rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Warn("non-success status",
			logging.Field{Key: "url", Value: rawURL},
			logging.Field{Key: "status", Value: resp.StatusCode})
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	f.logger.Debug("fetched resource",
		logging.Field{Key: "url", Value: rawURL},
		logging.Field{Key: "bytes", Value: len(resp.Body)})
	return resp.Body, nil
}
