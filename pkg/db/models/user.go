package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the reference record for buyers and sellers. Fulfillment reads it
// to enrich orders with contact details; account management lives elsewhere.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;type:text;not null"`
	Phone     string    `gorm:"column:phone;type:text"`
	Email     string    `gorm:"column:email;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
