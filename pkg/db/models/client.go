package models

import (
	"github.com/google/uuid"
)

// Client is a customer of an admin.
type Client struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID uuid.UUID `gorm:"column:admin_id;type:uuid;not null;index"`
	Name    string    `gorm:"column:name;not null"`
	Email   *string   `gorm:"column:email"`
	Phone   *string   `gorm:"column:phone"`
}
