package types

import "github.com/google/uuid"

// RelatedEntity links a notification to the settlement records it concerns.
type RelatedEntity struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	OrderID       uuid.UUID `json:"order_id"`
	AmountCents   int64     `json:"amount_cents"`
	Reference     *string   `json:"reference,omitempty"`
}
