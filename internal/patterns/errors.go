package patterns

import "fmt"

// LoadError represents a failure to read or validate a pattern library file
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pattern library %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("pattern library %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
