package models

import "github.com/google/uuid"

type Project struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID  uuid.UUID `gorm:"column:admin_id;type:uuid;not null;index"`
	ClientID uuid.UUID `gorm:"column:client_id;type:uuid;not null"`
	Name     string    `gorm:"column:name;not null"`
}
