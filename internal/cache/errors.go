package cache

import "fmt"

// Error is returned for Redis and encoding failures.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache: %s: %v", e.Message, e.Cause)
	}
	return "cache: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
