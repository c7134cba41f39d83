package oracle

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is the cause attached to calls on the disabled oracle.
var ErrNotConfigured = errors.New("oracle not configured")

// StatusError is a non-success response from the remote service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("oracle returned status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("oracle returned status %d", e.Code)
}

// MalformedError is a response that could not be turned into a result.
type MalformedError struct {
	Message string
	Cause   error
}

func (e *MalformedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed oracle response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed oracle response: %s", e.Message)
}

func (e *MalformedError) Unwrap() error {
	return e.Cause
}
