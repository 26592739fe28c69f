package analysis

import "fmt"

// InsufficientDataError reports a trace or window too short to analyze.
// It is fatal for that recording only; batch callers log it and move on.
type InsufficientDataError struct {
	Samples int
	Needed  int
	Context string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: %d samples, need at least %d", e.Context, e.Samples, e.Needed)
}
