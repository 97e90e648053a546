package utils

import (
	"fmt"

	"github.com/pkg/errors"
)

// FileNotFoundError is returned when an expected input file does not exist. Callers that process
// a batch treat it as a reason to skip the current item rather than to abort.
type FileNotFoundError struct {
	Path string
}

// NewFileNotFoundError is used when an expected input file does not exist.
func NewFileNotFoundError(path string) error {
	return &FileNotFoundError{Path: path}
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file %q does not exist", e.Path)
}

// IsFileNotFound reports whether any error in err's chain is a *FileNotFoundError.
func IsFileNotFound(err error) bool {
	var notFound *FileNotFoundError
	return errors.As(err, &notFound)
}

// NewConfigValidationError returns an error specifying that there is an error validating the
// config at the given path.
func NewConfigValidationError(path string, err error) error {
	return errors.Wrapf(err, "error validating %q", path)
}
