package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
	"github.com/arjunkhanna/secondmart-backend/pkg/types"
)

// Notification stores in-app notification payloads handed off by the core.
type Notification struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	RecipientID   uuid.UUID              `gorm:"column:recipient_id;type:uuid;not null"`
	RecipientRole enums.RecipientRole    `gorm:"column:recipient_role;type:text;not null"`
	Type          enums.NotificationType `gorm:"column:type;type:text;not null"`
	Title         string                 `gorm:"column:title;type:text;not null"`
	Body          string                 `gorm:"column:body;type:text;not null"`
	RelatedEntity *types.RelatedEntity   `gorm:"column:related_entity;type:jsonb;serializer:json"`
	ReadAt        *time.Time             `gorm:"column:read_at"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
}
