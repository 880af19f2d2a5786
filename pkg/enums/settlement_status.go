package enums

import "fmt"

// SettlementStatus tracks the lifecycle of a seller payout transaction.
type SettlementStatus string

const (
	SettlementStatusPending    SettlementStatus = "pending"
	SettlementStatusProcessing SettlementStatus = "processing"
	SettlementStatusCompleted  SettlementStatus = "completed"
	SettlementStatusFailed     SettlementStatus = "failed"
)

var validSettlementStatuses = []SettlementStatus{
	SettlementStatusPending,
	SettlementStatusProcessing,
	SettlementStatusCompleted,
	SettlementStatusFailed,
}

// String implements fmt.Stringer.
func (s SettlementStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SettlementStatus.
func (s SettlementStatus) IsValid() bool {
	for _, candidate := range validSettlementStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the transaction accepts no further transitions.
func (s SettlementStatus) IsTerminal() bool {
	return s == SettlementStatusCompleted || s == SettlementStatusFailed
}

// CanTransitionTo reports whether the target state is reachable from s.
func (s SettlementStatus) CanTransitionTo(target SettlementStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch target {
	case SettlementStatusProcessing:
		return s == SettlementStatusPending
	case SettlementStatusCompleted:
		return s == SettlementStatusPending || s == SettlementStatusProcessing
	case SettlementStatusFailed:
		return true
	default:
		return false
	}
}

// ParseSettlementStatus converts raw input into a SettlementStatus.
func ParseSettlementStatus(value string) (SettlementStatus, error) {
	for _, candidate := range validSettlementStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid settlement status %q", value)
}
