package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/threadline/threadline-backend/pkg/enums"
	"github.com/threadline/threadline-backend/pkg/types"
)

// Order is a commission placed by a client. Price and deposit are frozen once
// any payment exists.
type Order struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID          uuid.UUID         `gorm:"column:admin_id;type:uuid;not null;uniqueIndex:ux_orders_admin_number,priority:1"`
	ClientID         uuid.UUID         `gorm:"column:client_id;type:uuid;not null;index"`
	ProjectID        *uuid.UUID        `gorm:"column:project_id;type:uuid"`
	EventID          *uuid.UUID        `gorm:"column:event_id;type:uuid"`
	OrderNumber      string            `gorm:"column:order_number;not null;uniqueIndex:ux_orders_admin_number,priority:2"`
	Details          types.JSONMap     `gorm:"column:details;type:jsonb;not null;default:'{}'"`
	Price            decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null"`
	Currency         enums.Currency    `gorm:"column:currency;not null;default:'NGN'"`
	DueDate          *time.Time        `gorm:"column:due_date;type:date"`
	Status           enums.OrderStatus `gorm:"column:status;not null;default:'PENDING_PAYMENT'"`
	Deposit          *decimal.Decimal  `gorm:"column:deposit;type:numeric(10,2)"`
	StyleDescription *string           `gorm:"column:style_description"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
