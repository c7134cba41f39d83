package ingestion

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when a document's format cannot be determined or read
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ExtractionError represents a failure turning a document into text
type ExtractionError struct {
	Source  string
	Format  Format
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error for %s (%s): %s: %v", e.Source, e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error for %s (%s): %s", e.Source, e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
