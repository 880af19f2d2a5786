package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
)

// SellerTransaction tracks a payout owed to the seller for a fulfilled order.
type SellerTransaction struct {
	ID                   uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	OrderID              uuid.UUID              `gorm:"column:order_id;type:uuid;not null"`
	SellerID             uuid.UUID              `gorm:"column:seller_id;type:uuid;not null"`
	BuyerID              uuid.UUID              `gorm:"column:buyer_id;type:uuid;not null"`
	ListingID            uuid.UUID              `gorm:"column:listing_id;type:uuid;not null"`
	ProductTitle         string                 `gorm:"column:product_title;type:text;not null"`
	AmountCents          int64                  `gorm:"column:amount_cents;not null"`
	Status               enums.SettlementStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	AdminNotes           *string                `gorm:"column:admin_notes"`
	TransactionReference *string                `gorm:"column:transaction_reference"`
	ProcessedAt          *time.Time             `gorm:"column:processed_at"`
	CompletedAt          *time.Time             `gorm:"column:completed_at"`
	FailedAt             *time.Time             `gorm:"column:failed_at"`
	CreatedAt            time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
