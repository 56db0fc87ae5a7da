package materializer

import "fmt"

// DirectoryCreationError reports a destination directory that could not be created.
type DirectoryCreationError struct {
	Dir string
	Err error
}

func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("create directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryCreationError) Unwrap() error { return e.Err }

// ImageNameError reports a URL whose derived filename is not a plain file
// name inside the destination directory, e.g. a URL ending in "/".
type ImageNameError struct {
	URL  string
	Name string
}

func (e *ImageNameError) Error() string {
	return fmt.Sprintf("image name %q derived from %s is not a plain file name", e.Name, e.URL)
}
