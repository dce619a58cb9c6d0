package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/services"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps reconciliation errors onto the API error envelope
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPhotoNotFound):
		respondError(c, http.StatusNotFound, "PHOTO_NOT_FOUND", "Completion photo not found")
	case errors.Is(err, services.ErrOrderItemNotFound):
		respondError(c, http.StatusNotFound, "ORDER_ITEM_NOT_FOUND", "Order item not found")
	case errors.Is(err, services.ErrPhotoNotMatched):
		respondError(c, http.StatusConflict, "PHOTO_NOT_MATCHED", "Completion photo is not matched to an order item")
	case errors.Is(err, services.ErrInvalidFacility):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid facility ID")
	case errors.Is(err, services.ErrStorage):
		respondError(c, http.StatusBadGateway, "STORAGE_ERROR", "Failed to store completion photo")
	default:
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update reconciliation state")
	}
}

// idParam parses a positive numeric path parameter
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
