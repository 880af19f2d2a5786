package enums

import "fmt"

// PaymentProofStatus tracks the verification lifecycle of a payment proof.
type PaymentProofStatus string

const (
	PaymentProofStatusPendingVerification PaymentProofStatus = "pending_verification"
	PaymentProofStatusVerified            PaymentProofStatus = "verified"
	PaymentProofStatusRejected            PaymentProofStatus = "rejected"
)

var validPaymentProofStatuses = []PaymentProofStatus{
	PaymentProofStatusPendingVerification,
	PaymentProofStatusVerified,
	PaymentProofStatusRejected,
}

// String implements fmt.Stringer.
func (p PaymentProofStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentProofStatus.
func (p PaymentProofStatus) IsValid() bool {
	for _, candidate := range validPaymentProofStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the proof can no longer change state.
func (p PaymentProofStatus) IsTerminal() bool {
	return p == PaymentProofStatusVerified || p == PaymentProofStatusRejected
}

// ParsePaymentProofStatus converts raw input into a PaymentProofStatus.
func ParsePaymentProofStatus(value string) (PaymentProofStatus, error) {
	for _, candidate := range validPaymentProofStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment proof status %q", value)
}
