package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionSettingID is the primary key of the single settings row.
const CommissionSettingID = 1

// CommissionSetting holds the platform-wide commission percentage. The table
// contains exactly one row; updates overwrite it in place.
type CommissionSetting struct {
	ID                int             `gorm:"column:id;primaryKey"`
	CommissionPercent decimal.Decimal `gorm:"column:commission_percent;type:numeric(5,2);not null"`
	UpdatedBy         *uuid.UUID      `gorm:"column:updated_by;type:uuid"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
