package models

import (
	"database/sql/driver"
	"fmt"
)

// OrderStatus is the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusAssigned   OrderStatus = "assigned"
	OrderStatusPrinting   OrderStatus = "printing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ActiveProductionStatuses are the order statuses whose items can be matched against photos
var ActiveProductionStatuses = []OrderStatus{OrderStatusAssigned, OrderStatusPrinting}

// ParseOrderStatus converts a stored string into an OrderStatus
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusProcessing, OrderStatusAssigned, OrderStatusPrinting,
		OrderStatusCompleted, OrderStatusShipped, OrderStatusCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("invalid order status %q", s)
}

// IsActiveProduction reports whether the order is assigned to a facility and being produced
func (s OrderStatus) IsActiveProduction() bool {
	return s == OrderStatusAssigned || s == OrderStatusPrinting
}

// IsTerminal reports whether rollup must leave the status untouched
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusShipped || s == OrderStatusCancelled
}

// Value implements driver.Valuer
func (s OrderStatus) Value() (driver.Value, error) {
	if _, err := ParseOrderStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}

// Scan implements sql.Scanner
func (s *OrderStatus) Scan(src any) error {
	parsed, err := ParseOrderStatus(scanString(src))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// CompletionStatus tracks whether an order item has been produced
type CompletionStatus string

const (
	CompletionPending   CompletionStatus = "pending"
	CompletionCompleted CompletionStatus = "completed"
)

// ParseCompletionStatus converts a stored string into a CompletionStatus
func ParseCompletionStatus(s string) (CompletionStatus, error) {
	switch CompletionStatus(s) {
	case CompletionPending, CompletionCompleted:
		return CompletionStatus(s), nil
	}
	return "", fmt.Errorf("invalid completion status %q", s)
}

// Value implements driver.Valuer
func (s CompletionStatus) Value() (driver.Value, error) {
	if _, err := ParseCompletionStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}

// Scan implements sql.Scanner
func (s *CompletionStatus) Scan(src any) error {
	parsed, err := ParseCompletionStatus(scanString(src))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PhotoStatus is the reconciliation state of a completion photo
type PhotoStatus string

const (
	// PhotoPending is never durably stored under normal operation
	PhotoPending     PhotoStatus = "pending"
	PhotoMatched     PhotoStatus = "matched"
	PhotoNeedsReview PhotoStatus = "needs_review"
)

// ParsePhotoStatus converts a stored string into a PhotoStatus
func ParsePhotoStatus(s string) (PhotoStatus, error) {
	switch PhotoStatus(s) {
	case PhotoPending, PhotoMatched, PhotoNeedsReview:
		return PhotoStatus(s), nil
	}
	return "", fmt.Errorf("invalid photo status %q", s)
}

// Value implements driver.Valuer
func (s PhotoStatus) Value() (driver.Value, error) {
	if _, err := ParsePhotoStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}

// Scan implements sql.Scanner
func (s *PhotoStatus) Scan(src any) error {
	parsed, err := ParsePhotoStatus(scanString(src))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func scanString(src any) string {
	switch v := src.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
