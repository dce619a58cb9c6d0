package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/middleware"
)

// OrderItemController serves manual completion of order items
type OrderItemController struct {
	svc    Reconciler
	logger *slog.Logger
}

// NewOrderItemController creates an order item controller
func NewOrderItemController(svc Reconciler, logger *slog.Logger) *OrderItemController {
	return &OrderItemController{svc: svc, logger: logger.With("system", "order-items")}
}

// CompleteRequest optionally names the photo showing the finished item
type CompleteRequest struct {
	CompletionPhotoID *uint `json:"completion_photo_id" binding:"omitempty,gt=0"`
}

// Complete handles POST /api/v1/order-items/:id/complete
func (oc *OrderItemController) Complete(c *gin.Context) {
	itemID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CompleteRequest
	// The body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "completion_photo_id must be a positive integer")
		return
	}

	result, err := oc.svc.MarkCompleted(c.Request.Context(), itemID, req.CompletionPhotoID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	oc.logger.Info("order item marked completed", "order_item_id", itemID, "reviewer", middleware.ReviewerID(c))
	respondOK(c, http.StatusOK, result)
}

// Uncomplete handles POST /api/v1/order-items/:id/uncomplete
func (oc *OrderItemController) Uncomplete(c *gin.Context) {
	itemID, ok := idParam(c, "id")
	if !ok {
		return
	}

	result, err := oc.svc.UnmarkCompleted(c.Request.Context(), itemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	oc.logger.Info("order item marked pending", "order_item_id", itemID, "reviewer", middleware.ReviewerID(c))
	respondOK(c, http.StatusOK, result)
}
