package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is an append-only ledger entry against an order.
type Payment struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	Notes     *string         `gorm:"column:notes"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
