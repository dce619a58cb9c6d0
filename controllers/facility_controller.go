package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FacilityController exposes per-facility views of pending work
type FacilityController struct {
	svc Reconciler
}

// NewFacilityController creates a facility controller
func NewFacilityController(svc Reconciler) *FacilityController {
	return &FacilityController{svc: svc}
}

// AvailableItems handles GET /api/v1/facilities/:facilityId/available-order-items
func (fc *FacilityController) AvailableItems(c *gin.Context) {
	facilityID, ok := idParam(c, "facilityId")
	if !ok {
		return
	}

	items, err := fc.svc.AvailableItems(c.Request.Context(), facilityID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"facility_id": facilityID,
		"count":       len(items),
		"items":       items,
	})
}
