package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
)

// Order is the fulfillment record spawned from a verified payment proof.
// SourcePaymentID carries a unique index so reconciliation can never link a
// second order to the same payment.
type Order struct {
	ID                  uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	SourcePaymentID     uuid.UUID                 `gorm:"column:source_payment_id;type:uuid;not null;uniqueIndex:idx_orders_source_payment"`
	ListingID           uuid.UUID                 `gorm:"column:listing_id;type:uuid;not null"`
	BuyerID             uuid.UUID                 `gorm:"column:buyer_id;type:uuid;not null"`
	SellerID            uuid.UUID                 `gorm:"column:seller_id;type:uuid;not null"`
	BuyerContact        string                    `gorm:"column:buyer_contact;type:text;not null"`
	SellerContact       string                    `gorm:"column:seller_contact;type:text;not null"`
	ProductTitle        string                    `gorm:"column:product_title;type:text;not null"`
	AmountCents         int64                     `gorm:"column:amount_cents;not null"`
	Status              enums.OrderStatus         `gorm:"column:status;type:text;not null;default:'in_progress'"`
	CurrentStep         int                       `gorm:"column:current_step;not null;default:1"`
	SellerPaymentStatus enums.SellerPaymentStatus `gorm:"column:seller_payment_status;type:text;not null;default:'pending'"`
	FailureReason       *string                   `gorm:"column:failure_reason"`
	CompletedAt         *time.Time                `gorm:"column:completed_at"`
	FailedAt            *time.Time                `gorm:"column:failed_at"`
	Steps               []OrderStep               `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
