package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing is the reference record for a product being sold. Fulfillment only
// reads listings; lifecycle management lives outside this service.
type Listing struct {
	ID                        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	SellerID                  uuid.UUID        `gorm:"column:seller_id;type:uuid;not null"`
	Title                     string           `gorm:"column:title;type:text;not null"`
	PriceCents                int64            `gorm:"column:price_cents;not null"`
	CommissionOverridePercent *decimal.Decimal `gorm:"column:commission_override_percent;type:numeric(5,2)"`
	CreatedAt                 time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                 time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
