package models

import (
	"time"

	"github.com/google/uuid"
)

// Event groups clients attending the same occasion (wedding, show).
type Event struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID   uuid.UUID  `gorm:"column:admin_id;type:uuid;not null;index"`
	Name      string     `gorm:"column:name;not null"`
	EventDate *time.Time `gorm:"column:event_date;type:date"`
}

// EventParticipant links a client to an event.
type EventParticipant struct {
	EventID  uuid.UUID `gorm:"column:event_id;type:uuid;primaryKey"`
	ClientID uuid.UUID `gorm:"column:client_id;type:uuid;primaryKey"`
}

func (EventParticipant) TableName() string {
	return "event_participants"
}
