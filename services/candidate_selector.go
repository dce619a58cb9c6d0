package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/models"
)

// SelectCandidates returns the pending order items a photo from facilityID
// may show: the parent order is assigned to the facility and in active
// production, and no currently matched photo points at the item.
// Items are ordered by order creation then item id; the best-match
// tie-break depends on this order being stable.
func SelectCandidates(db *gorm.DB, facilityID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id AND orders.deleted_at IS NULL").
		Where("orders.facility_id = ?", facilityID).
		Where("orders.status IN ?", models.ActiveProductionStatuses).
		Where("order_items.completion_status = ?", models.CompletionPending).
		Where("NOT EXISTS (SELECT 1 FROM completion_photos WHERE completion_photos.order_item_id = order_items.id AND completion_photos.status = ?)", models.PhotoMatched).
		Order("orders.created_at ASC").
		Order("order_items.id ASC").
		Preload("Order").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select candidates: %w", err)
	}
	return items, nil
}

// AvailableItems exposes the candidate selector for a facility
func (s *ReconciliationService) AvailableItems(ctx context.Context, facilityID uint) ([]models.OrderItem, error) {
	if facilityID == 0 {
		return nil, ErrInvalidFacility
	}
	return SelectCandidates(s.db.WithContext(ctx), facilityID)
}
