package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
)

// PaymentProof is a buyer-submitted evidence of payment awaiting admin review.
type PaymentProof struct {
	ID               uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	BuyerID          uuid.UUID                `gorm:"column:buyer_id;type:uuid;not null"`
	ListingID        uuid.UUID                `gorm:"column:listing_id;type:uuid;not null"`
	AmountCents      int64                    `gorm:"column:amount_cents;not null"`
	PaymentMethod    enums.PaymentMethod      `gorm:"column:payment_method;type:text;not null;default:'upi'"`
	PaymentReference string                   `gorm:"column:payment_reference;type:text;not null"`
	Status           enums.PaymentProofStatus `gorm:"column:status;type:text;not null;default:'pending_verification'"`
	RejectionReason  *string                  `gorm:"column:rejection_reason"`
	VerifiedAt       *time.Time               `gorm:"column:verified_at"`
	ReviewedBy       *uuid.UUID               `gorm:"column:reviewed_by;type:uuid"`
	SubmittedAt      time.Time                `gorm:"column:submitted_at;autoCreateTime"`
	UpdatedAt        time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
