package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
)

// OrderStep is one stage of the fixed 7-step fulfillment pipeline.
type OrderStep struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID        `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_order_steps_order_number"`
	StepNumber  int              `gorm:"column:step_number;not null;uniqueIndex:idx_order_steps_order_number"`
	Name        string           `gorm:"column:name;type:text;not null"`
	Status      enums.StepStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Details     *string          `gorm:"column:details"`
	CompletedAt *time.Time       `gorm:"column:completed_at"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
