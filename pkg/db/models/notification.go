package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/threadline/threadline-backend/pkg/enums"
)

// Notification is an activity feed entry scoped to an admin.
type Notification struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID   uuid.UUID             `gorm:"column:admin_id;type:uuid;not null"`
	Type      enums.ChangeEventType `gorm:"column:type;not null"`
	Title     string                `gorm:"column:title;type:text;not null"`
	Message   string                `gorm:"column:message;type:text;not null"`
	Link      *string               `gorm:"column:link;type:text"`
	ReadAt    *time.Time            `gorm:"column:read_at;type:timestamptz"`
	CreatedAt time.Time             `gorm:"column:created_at;type:timestamptz;autoCreateTime"`
}
