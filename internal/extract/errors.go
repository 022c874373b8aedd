package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat matches any UnsupportedFormatError
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrExtractionFailed matches any ExtractionError
	ErrExtractionFailed = errors.New("extraction failed")
)

// UnsupportedFormatError is returned when the declared MIME type is not one of
// the recognized document types.
type UnsupportedFormatError struct {
	MIMEType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type: %q", e.MIMEType)
}

// Is reports whether target is ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ExtractionError wraps a decoder failure for a recognized document type.
type ExtractionError struct {
	MIMEType string
	Message  string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract text from %s: %s: %v", e.MIMEType, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to extract text from %s: %s", e.MIMEType, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrExtractionFailed.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailed
}
