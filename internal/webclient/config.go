package webclient

import "time"

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "logpuzzle/1.0"
)

// Config holds transport settings for the net/http backend.
type Config struct {
	// Timeout bounds each request end to end; zero disables it.
	Timeout time.Duration
	// UserAgent is sent unless the request sets its own.
	UserAgent string
	// MaxBodyBytes caps how much of a response body is buffered; zero means no cap.
	MaxBodyBytes int64
}
