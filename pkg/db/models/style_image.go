package models

import "github.com/google/uuid"

type StyleImage struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID uuid.UUID `gorm:"column:admin_id;type:uuid;not null;index"`
	URL     string    `gorm:"column:url;not null"`
	Caption *string   `gorm:"column:caption"`
}

// OrderStyleImage is the join row between an order and its reference images.
type OrderStyleImage struct {
	OrderID      uuid.UUID `gorm:"column:order_id;type:uuid;primaryKey"`
	StyleImageID uuid.UUID `gorm:"column:style_image_id;type:uuid;primaryKey"`
}

func (OrderStyleImage) TableName() string {
	return "order_style_images"
}
