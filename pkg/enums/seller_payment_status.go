package enums

import "fmt"

// SellerPaymentStatus mirrors settlement progress onto the order record.
type SellerPaymentStatus string

const (
	SellerPaymentStatusPending   SellerPaymentStatus = "pending"
	SellerPaymentStatusCompleted SellerPaymentStatus = "completed"
	SellerPaymentStatusFailed    SellerPaymentStatus = "failed"
)

var validSellerPaymentStatuses = []SellerPaymentStatus{
	SellerPaymentStatusPending,
	SellerPaymentStatusCompleted,
	SellerPaymentStatusFailed,
}

// String implements fmt.Stringer.
func (s SellerPaymentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SellerPaymentStatus.
func (s SellerPaymentStatus) IsValid() bool {
	for _, candidate := range validSellerPaymentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSellerPaymentStatus converts raw input into a SellerPaymentStatus.
func ParseSellerPaymentStatus(value string) (SellerPaymentStatus, error) {
	for _, candidate := range validSellerPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid seller payment status %q", value)
}
