package enums

import "fmt"

// StepStatus tracks one stage of the fulfillment pipeline.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

var validStepStatuses = []StepStatus{
	StepStatusPending,
	StepStatusCompleted,
	StepStatusFailed,
}

// String implements fmt.Stringer.
func (s StepStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StepStatus.
func (s StepStatus) IsValid() bool {
	for _, candidate := range validStepStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStepStatus converts raw input into a StepStatus.
func ParseStepStatus(value string) (StepStatus, error) {
	for _, candidate := range validStepStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid step status %q", value)
}
