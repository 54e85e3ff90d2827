package catalog

import "fmt"

// LoadError means the catalog input was unreadable as a whole.
// Individual bad records are skipped and counted, never raised.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog load failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("catalog load failed: %s", e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
