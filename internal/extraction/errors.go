package extraction

import "fmt"

// StepError records the failure of one sub-extraction. Failures are absorbed
// into the profile's error list rather than propagated, so extraction of the
// remaining fields can continue.
type StepError struct {
	Step    string
	Message string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s extraction failed: %s", e.Step, e.Message)
}

// ErrProfileIncomplete is returned by callers of Extract when both name and
// email are missing and the profile cannot identify a candidate.
type ErrProfileIncomplete struct{}

func (e *ErrProfileIncomplete) Error() string {
	return "critical information missing: name and email"
}
