package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem is one line of an order: a design printed in a color, size and quantity
type OrderItem struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	OrderID           uint             `gorm:"not null;index" json:"order_id"`
	Order             *Order           `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	DesignImageKey    string           `gorm:"not null" json:"design_image_key"` // storage key of the design reference
	Color             string           `gorm:"not null" json:"color"`
	Size              string           `gorm:"not null" json:"size"`
	Quantity          int              `gorm:"not null;check:quantity > 0" json:"quantity"`
	CompletionStatus  CompletionStatus `gorm:"type:varchar(20);not null;index" json:"completion_status"`
	CompletionPhotoID *uint            `gorm:"index" json:"completion_photo_id"`
	CompletedAt       *time.Time       `json:"completed_at"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// IsCompleted reports whether the item has been produced
func (i OrderItem) IsCompleted() bool {
	return i.CompletionStatus == CompletionCompleted
}
