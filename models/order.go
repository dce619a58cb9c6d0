package models

import (
	"time"

	"gorm.io/gorm"
)

// Order represents a custom apparel order routed to a print facility
type Order struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderNumber string         `gorm:"uniqueIndex;not null" json:"order_number"`
	FacilityID  *uint          `gorm:"index" json:"facility_id"`                           // nullable until the order is assigned
	Status      OrderStatus    `gorm:"type:varchar(20);not null;index" json:"status"`       // only changed by rollup or facility assignment
	Items       []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
