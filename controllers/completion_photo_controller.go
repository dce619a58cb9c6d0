package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/middleware"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/models"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/services"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/utils"
)

// Reconciler is the reconciliation service as seen by the HTTP layer
type Reconciler interface {
	Submit(ctx context.Context, in services.SubmitInput) (*services.SubmitResult, error)
	ManualAssign(ctx context.Context, photoID, orderItemID uint) (*services.AssignResult, error)
	Unmatch(ctx context.Context, photoID uint) (*services.UnmatchResult, error)
	MarkCompleted(ctx context.Context, orderItemID uint, photoID *uint) (*services.CompletionResult, error)
	UnmarkCompleted(ctx context.Context, orderItemID uint) (*services.CompletionResult, error)
	AvailableItems(ctx context.Context, facilityID uint) ([]models.OrderItem, error)
	ListPhotos(ctx context.Context, filter services.PhotoFilter) ([]models.CompletionPhoto, error)
	GetPhoto(ctx context.Context, photoID uint) (*models.CompletionPhoto, error)
}

// PhotoController serves completion photo submission and review
type PhotoController struct {
	svc    Reconciler
	logger *slog.Logger
}

// NewPhotoController creates a photo controller
func NewPhotoController(svc Reconciler, logger *slog.Logger) *PhotoController {
	return &PhotoController{svc: svc, logger: logger.With("system", "photos")}
}

// Submit handles POST /api/v1/facilities/:facilityId/completion-photos
func (pc *PhotoController) Submit(c *gin.Context) {
	facilityID, ok := idParam(c, "facilityId")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "A photo file is required in the 'photo' field")
		return
	}

	content, contentType, err := utils.ReadUploadedFile(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			respondError(c, http.StatusBadRequest, "INVALID_FILE", uploadErr.Message)
			return
		}
		respondError(c, http.StatusBadRequest, "INVALID_FILE", "Failed to read uploaded photo")
		return
	}

	in := services.SubmitInput{
		FacilityID:  facilityID,
		Content:     content,
		ContentType: contentType,
	}
	if color := strings.TrimSpace(c.PostForm("detected_color")); color != "" {
		in.DetectedColor = &color
	}

	result, err := pc.svc.Submit(c.Request.Context(), in)
	if err != nil {
		pc.logger.Error("submit failed", "facility_id", facilityID, "error", err)
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, result)
}

// List handles GET /api/v1/completion-photos
// Query params: status, facility_id, limit
func (pc *PhotoController) List(c *gin.Context) {
	var filter services.PhotoFilter

	if raw := c.Query("status"); raw != "" {
		status, err := models.ParsePhotoStatus(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "status must be one of pending, matched, needs_review")
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("facility_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid facility_id")
			return
		}
		facilityID := uint(id)
		filter.FacilityID = &facilityID
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	photos, err := pc.svc.ListPhotos(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, photos)
}

// Get handles GET /api/v1/completion-photos/:id
func (pc *PhotoController) Get(c *gin.Context) {
	photoID, ok := idParam(c, "id")
	if !ok {
		return
	}

	photo, err := pc.svc.GetPhoto(c.Request.Context(), photoID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, photo)
}

// AssignRequest is the body of a manual assignment
type AssignRequest struct {
	OrderItemID uint `json:"order_item_id" binding:"required,gt=0"`
}

// Assign handles POST /api/v1/completion-photos/:id/assign
func (pc *PhotoController) Assign(c *gin.Context) {
	photoID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "order_item_id is required")
		return
	}

	result, err := pc.svc.ManualAssign(c.Request.Context(), photoID, req.OrderItemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pc.logger.Info("manual assignment", "photo_id", photoID, "order_item_id", req.OrderItemID, "reviewer", middleware.ReviewerID(c))
	respondOK(c, http.StatusOK, result)
}

// Unmatch handles POST /api/v1/completion-photos/:id/unmatch
func (pc *PhotoController) Unmatch(c *gin.Context) {
	photoID, ok := idParam(c, "id")
	if !ok {
		return
	}

	result, err := pc.svc.Unmatch(c.Request.Context(), photoID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pc.logger.Info("photo unmatched", "photo_id", photoID, "reviewer", middleware.ReviewerID(c))
	respondOK(c, http.StatusOK, result)
}
