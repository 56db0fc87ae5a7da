package extractor

import "fmt"

// InvalidFilenameError reports a log filename without the underscore that
// separates its prefix from the hostname.
type InvalidFilenameError struct {
	Filename string
}

func (e *InvalidFilenameError) Error() string {
	return fmt.Sprintf("derive hostname from %q: filename has no underscore-delimited hostname", e.Filename)
}

// FileAccessError reports a log file that could not be opened or read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("read log %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }
