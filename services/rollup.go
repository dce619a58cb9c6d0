package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/models"
)

// RollupResult is an order's completion state after a rollup
type RollupResult struct {
	OrderID        uint               `json:"order_id"`
	TotalItems     int64              `json:"total_items"`
	CompletedItems int64              `json:"completed_items"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previous_status"`
}

// Changed reports whether the rollup moved the order to a new status
func (r RollupResult) Changed() bool {
	return r.Status != r.PreviousStatus
}

// RollupOrder recomputes an order's status from its items. It must run on
// the transaction that changed the item so the two never disagree.
//
// All items completed moves the order to completed. A completed order with
// a pending item goes back to printing. Shipped and cancelled orders are
// left alone, as are active orders that are not yet complete.
func RollupOrder(tx *gorm.DB, orderID uint, now time.Time) (RollupResult, error) {
	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RollupResult{}, fmt.Errorf("order %d not found", orderID)
		}
		return RollupResult{}, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}

	result := RollupResult{OrderID: order.ID, Status: order.Status, PreviousStatus: order.Status}

	if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&result.TotalItems).Error; err != nil {
		return RollupResult{}, fmt.Errorf("failed to count items: %w", err)
	}
	if err := tx.Model(&models.OrderItem{}).
		Where("order_id = ? AND completion_status = ?", orderID, models.CompletionCompleted).
		Count(&result.CompletedItems).Error; err != nil {
		return RollupResult{}, fmt.Errorf("failed to count completed items: %w", err)
	}

	next := nextOrderStatus(order.Status, result.TotalItems, result.CompletedItems)
	if next == order.Status {
		return result, nil
	}

	updates := map[string]any{"status": next, "completed_at": nil}
	if next == models.OrderStatusCompleted {
		updates["completed_at"] = now
	}
	if err := tx.Model(&order).Updates(updates).Error; err != nil {
		return RollupResult{}, fmt.Errorf("failed to update order %d status: %w", orderID, err)
	}

	result.Status = next
	return result, nil
}

func nextOrderStatus(current models.OrderStatus, total, completed int64) models.OrderStatus {
	if current.IsTerminal() {
		return current
	}
	if total > 0 && completed == total {
		return models.OrderStatusCompleted
	}
	if current == models.OrderStatusCompleted {
		return models.OrderStatusPrinting
	}
	return current
}
