package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/events"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/imaging"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/matching"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/models"
)

// manualConfidence is recorded when a person picks the item
const manualConfidence = 1.0

// ReconciliationOptions configures a ReconciliationService
type ReconciliationOptions struct {
	NormalizeSize  int
	ScoringWorkers int
	Cache          DesignCache
	Publisher      events.Publisher
	Logger         *slog.Logger
}

// ReconciliationService owns the lifecycle of completion photos and the
// completion state of the order items they match.
type ReconciliationService struct {
	db        *gorm.DB
	images    ImageService
	designs   *DesignLoader
	publisher events.Publisher
	logger    *slog.Logger
	size      int
	workers   int
	now       func() time.Time
}

// NewReconciliationService wires the service to its store, image storage and publisher
func NewReconciliationService(db *gorm.DB, images ImageService, opts ReconciliationOptions) *ReconciliationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	size := opts.NormalizeSize
	if size <= 0 {
		size = imaging.DefaultSize
	}
	workers := opts.ScoringWorkers
	if workers <= 0 {
		workers = 1
	}

	return &ReconciliationService{
		db:        db,
		images:    images,
		designs:   NewDesignLoader(images, opts.Cache, size, workers, logger),
		publisher: publisher,
		logger:    logger.With("system", "reconciliation"),
		size:      size,
		workers:   workers,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SubmitInput is a completion photo submitted by a facility
type SubmitInput struct {
	FacilityID    uint
	Content       []byte
	ContentType   string
	DetectedColor *string
}

// ItemSummary describes an order item to the person reviewing a photo
type ItemSummary struct {
	OrderItemID uint     `json:"order_item_id"`
	OrderID     uint     `json:"order_id"`
	OrderNumber string   `json:"order_number"`
	Color       string   `json:"color"`
	Size        string   `json:"size"`
	Quantity    int      `json:"quantity"`
	Score       *float64 `json:"score,omitempty"`
	Quality     string   `json:"quality,omitempty"`
}

// SubmitResult is the persisted outcome of a submission
type SubmitResult struct {
	Photo       models.CompletionPhoto `json:"photo"`
	Status      models.PhotoStatus     `json:"status"`
	Confidence  *float64               `json:"confidence,omitempty"`
	MatchedItem *ItemSummary           `json:"matched_item,omitempty"`
	Candidates  []ItemSummary          `json:"candidates"`
	BestScore   float64                `json:"best_score"`
	Quality     string                 `json:"quality"`
	Reason      string                 `json:"reason"`
	Rollup      *RollupResult          `json:"order,omitempty"`
}

// Submit stores the photo, scores it against the facility's pending items
// and persists either a match or a review outcome in one transaction.
// Undecodable photos and empty candidate sets are outcomes, not errors.
func (s *ReconciliationService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if in.FacilityID == 0 {
		return nil, ErrInvalidFacility
	}

	key, err := s.images.StorePhoto(ctx, in.FacilityID, in.Content, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	result, err := s.reconcile(ctx, key, in)
	if err != nil {
		// The photo row was never committed, so the stored image is orphaned
		if delErr := s.images.DeleteImage(context.WithoutCancel(ctx), key); delErr != nil {
			s.logger.Error("failed to remove orphaned photo", "key", key, "error", delErr)
		}
		return nil, err
	}

	s.publishSubmit(ctx, result)
	return result, nil
}

func (s *ReconciliationService) reconcile(ctx context.Context, key string, in SubmitInput) (*SubmitResult, error) {
	log := s.logger.With("facility_id", in.FacilityID, "image_key", key)

	items, err := SelectCandidates(s.db.WithContext(ctx), in.FacilityID)
	if err != nil {
		return nil, err
	}

	photo := models.CompletionPhoto{
		ImageKey:      key,
		FacilityID:    in.FacilityID,
		Status:        models.PhotoNeedsReview,
		DetectedColor: in.DetectedColor,
		UploadedAt:    s.now(),
	}

	target, err := imaging.Normalize(in.Content, s.size)
	if err != nil {
		if !imaging.IsNormalizationError(err) {
			return nil, err
		}
		log.Warn("photo needs review", "reason", models.ReasonNormalizationFailed, "error", err)
		photo.Reason = models.ReasonNormalizationFailed
		return s.commitReview(ctx, photo, summarize(items, nil), 0)
	}

	if len(items) == 0 {
		log.Info("photo needs review", "reason", models.ReasonNoCandidates, "best_score", 0.0)
		photo.Reason = models.ReasonNoCandidates
		return s.commitReview(ctx, photo, []ItemSummary{}, 0)
	}

	buffers, err := s.designs.Load(ctx, items)
	if err != nil {
		return nil, err
	}
	candidates := make([]matching.Candidate[models.OrderItem], len(items))
	for i := range items {
		candidates[i] = matching.Candidate[models.OrderItem]{Item: items[i], Buffer: buffers[i]}
	}

	selection, err := matching.Select(ctx, target, candidates, matching.Options{Workers: s.workers})
	if err != nil {
		return nil, err
	}
	best := selection.BestScore
	photo.BestScore = &best

	if !selection.AutoMatch {
		log.Info("photo needs review", "reason", models.ReasonBelowThreshold, "best_score", best, "candidates", len(items))
		photo.Reason = models.ReasonBelowThreshold
		return s.commitReview(ctx, photo, summarize(nil, selection.Ranked), best)
	}

	result, err := s.commitMatch(ctx, photo, selection)
	if err != nil {
		return nil, err
	}
	if result.Status == models.PhotoMatched {
		log.Info("photo matched", "photo_id", result.Photo.ID, "order_item_id", result.MatchedItem.OrderItemID, "confidence", *result.Confidence)
	} else {
		log.Warn("photo needs review", "photo_id", result.Photo.ID, "reason", models.ReasonMatchConflict, "best_score", best)
	}
	return result, nil
}

func (s *ReconciliationService) commitReview(ctx context.Context, photo models.CompletionPhoto, candidates []ItemSummary, best float64) (*SubmitResult, error) {
	if err := s.db.WithContext(ctx).Create(&photo).Error; err != nil {
		return nil, fmt.Errorf("failed to save completion photo: %w", err)
	}
	return &SubmitResult{
		Photo:      photo,
		Status:     photo.Status,
		Candidates: candidates,
		BestScore:  best,
		Quality:    matching.Quality(best),
		Reason:     photo.Reason,
	}, nil
}

// commitMatch claims the best candidate that is still pending. Each claim is
// a conditional update, so a concurrent submission that got there first
// makes it affect no rows and the next candidate above the threshold is
// tried instead.
func (s *ReconciliationService) commitMatch(ctx context.Context, photo models.CompletionPhoto, selection matching.Result[models.OrderItem]) (*SubmitResult, error) {
	result := &SubmitResult{
		BestScore: selection.BestScore,
		Quality:   matching.Quality(selection.BestScore),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		photo.Reason = models.ReasonMatchConflict
		if err := tx.Create(&photo).Error; err != nil {
			return fmt.Errorf("failed to save completion photo: %w", err)
		}

		now := s.now()
		for _, cand := range selection.AboveThreshold() {
			claimed, err := claimItem(tx, cand.Item.ID, photo.ID, now)
			if err != nil {
				return err
			}
			if !claimed {
				s.logger.Warn("candidate taken by another submission", "photo_id", photo.ID, "order_item_id", cand.Item.ID)
				continue
			}

			score := cand.Score
			if err := tx.Model(&photo).Updates(map[string]any{
				"status":           models.PhotoMatched,
				"order_item_id":    cand.Item.ID,
				"confidence_score": score,
				"reason":           models.ReasonAutoMatch,
			}).Error; err != nil {
				return fmt.Errorf("failed to match completion photo: %w", err)
			}

			rollup, err := RollupOrder(tx, cand.Item.OrderID, now)
			if err != nil {
				return err
			}

			itemID := cand.Item.ID
			photo.Status = models.PhotoMatched
			photo.Reason = models.ReasonAutoMatch
			photo.OrderItemID = &itemID
			photo.ConfidenceScore = &score
			matched := summarizeItem(cand.Item, &score)
			result.MatchedItem = &matched
			result.Confidence = &score
			result.Rollup = &rollup
			return nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Photo = photo
	result.Status = photo.Status
	result.Reason = photo.Reason
	if result.MatchedItem == nil {
		result.Candidates = summarize(nil, selection.Ranked)
	} else {
		result.Candidates = []ItemSummary{}
	}
	return result, nil
}

// claimItem completes an order item only if it is still pending and
// unclaimed. It reports whether the update took effect.
func claimItem(tx *gorm.DB, itemID, photoID uint, now time.Time) (bool, error) {
	res := tx.Model(&models.OrderItem{}).
		Where("id = ? AND completion_status = ?", itemID, models.CompletionPending).
		Where("NOT EXISTS (SELECT 1 FROM completion_photos WHERE completion_photos.order_item_id = order_items.id AND completion_photos.status = ?)", models.PhotoMatched).
		Updates(map[string]any{
			"completion_status":   models.CompletionCompleted,
			"completion_photo_id": photoID,
			"completed_at":        now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim order item %d: %w", itemID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// AssignResult is the outcome of a manual assignment
type AssignResult struct {
	Photo  models.CompletionPhoto `json:"photo"`
	Item   ItemSummary            `json:"order_item"`
	Rollup RollupResult           `json:"order"`
}

// ManualAssign matches a photo to an order item chosen by a person, with
// confidence 1.0. The photo's previous item, if any, goes back to pending,
// and a photo previously matched to the chosen item goes to review.
func (s *ReconciliationService) ManualAssign(ctx context.Context, photoID, orderItemID uint) (*AssignResult, error) {
	var result AssignResult
	var published []events.Event

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		photo, err := findPhoto(tx, photoID)
		if err != nil {
			return err
		}
		item, err := findItem(tx, orderItemID)
		if err != nil {
			return err
		}

		now := s.now()
		evts, err := s.linkPhoto(tx, &photo, &item, manualConfidence, models.ReasonManualAssignment, now)
		if err != nil {
			return err
		}
		published = evts

		rollup, err := RollupOrder(tx, item.OrderID, now)
		if err != nil {
			return err
		}

		confidence := manualConfidence
		result = AssignResult{Photo: photo, Item: summarizeItem(item, &confidence), Rollup: rollup}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("photo manually assigned", "photo_id", photoID, "order_item_id", orderItemID, "order_status", result.Rollup.Status)

	matched := events.New(events.PhotoMatched)
	matched.FacilityID = result.Photo.FacilityID
	matched.PhotoID = result.Photo.ID
	matched.OrderItemID = result.Item.OrderItemID
	matched.OrderID = result.Item.OrderID
	matched.Confidence = result.Photo.ConfidenceScore
	matched.Reason = models.ReasonManualAssignment
	published = append(published, matched)
	s.publish(ctx, append(published, rollupEvents(result.Rollup)...)...)

	return &result, nil
}

// linkPhoto makes photo the one matched photo of item inside tx, undoing
// whatever either side was linked to before.
func (s *ReconciliationService) linkPhoto(tx *gorm.DB, photo *models.CompletionPhoto, item *models.OrderItem, confidence float64, reason string, now time.Time) ([]events.Event, error) {
	var evts []events.Event

	// Photo was matched to a different item: that item is no longer done
	if photo.Status == models.PhotoMatched && photo.OrderItemID != nil && *photo.OrderItemID != item.ID {
		prevID := *photo.OrderItemID
		var prev models.OrderItem
		if err := tx.First(&prev, prevID).Error; err == nil {
			if err := resetItem(tx, prev.ID); err != nil {
				return nil, err
			}
			rollup, err := RollupOrder(tx, prev.OrderID, now)
			if err != nil {
				return nil, err
			}
			evts = append(evts, rollupEvents(rollup)...)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load order item %d: %w", prevID, err)
		}
	}

	// Another photo currently matched to this item goes back to review
	var others []models.CompletionPhoto
	if err := tx.Where("order_item_id = ? AND status = ? AND id <> ?", item.ID, models.PhotoMatched, photo.ID).
		Find(&others).Error; err != nil {
		return nil, fmt.Errorf("failed to load photos of order item %d: %w", item.ID, err)
	}
	for _, other := range others {
		if err := demotePhoto(tx, other.ID); err != nil {
			return nil, err
		}
		e := events.New(events.PhotoUnmatched)
		e.FacilityID = other.FacilityID
		e.PhotoID = other.ID
		e.OrderItemID = item.ID
		e.OrderID = item.OrderID
		e.Reason = models.ReasonUnmatched
		evts = append(evts, e)
	}

	if err := tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).Updates(map[string]any{
		"completion_status":   models.CompletionCompleted,
		"completion_photo_id": photo.ID,
		"completed_at":        now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to complete order item %d: %w", item.ID, err)
	}

	if err := tx.Model(photo).Updates(map[string]any{
		"status":           models.PhotoMatched,
		"order_item_id":    item.ID,
		"confidence_score": confidence,
		"reason":           reason,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to match completion photo %d: %w", photo.ID, err)
	}

	photo.Status = models.PhotoMatched
	photo.OrderItemID = &item.ID
	photo.ConfidenceScore = &confidence
	photo.Reason = reason
	item.CompletionStatus = models.CompletionCompleted
	item.CompletionPhotoID = &photo.ID
	item.CompletedAt = &now
	return evts, nil
}

// UnmatchResult is the outcome of unmatching a photo
type UnmatchResult struct {
	Photo       models.CompletionPhoto `json:"photo"`
	OrderItemID uint                   `json:"order_item_id"`
	Rollup      RollupResult           `json:"order"`
}

// Unmatch returns a matched photo to review. In the same transaction its
// order item goes back to pending and the order status is recomputed.
func (s *ReconciliationService) Unmatch(ctx context.Context, photoID uint) (*UnmatchResult, error) {
	var result UnmatchResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		photo, err := findPhoto(tx, photoID)
		if err != nil {
			return err
		}
		if photo.Status != models.PhotoMatched || photo.OrderItemID == nil {
			return ErrPhotoNotMatched
		}

		item, err := findItem(tx, *photo.OrderItemID)
		if err != nil {
			return err
		}
		if err := resetItem(tx, item.ID); err != nil {
			return err
		}
		if err := demotePhoto(tx, photo.ID); err != nil {
			return err
		}

		rollup, err := RollupOrder(tx, item.OrderID, s.now())
		if err != nil {
			return err
		}

		photo.Status = models.PhotoNeedsReview
		photo.OrderItemID = nil
		photo.ConfidenceScore = nil
		photo.Reason = models.ReasonUnmatched
		result = UnmatchResult{Photo: photo, OrderItemID: item.ID, Rollup: rollup}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("photo unmatched", "photo_id", photoID, "order_item_id", result.OrderItemID, "order_status", result.Rollup.Status)

	e := events.New(events.PhotoUnmatched)
	e.FacilityID = result.Photo.FacilityID
	e.PhotoID = result.Photo.ID
	e.OrderItemID = result.OrderItemID
	e.OrderID = result.Rollup.OrderID
	e.Reason = models.ReasonUnmatched
	s.publish(ctx, append([]events.Event{e}, rollupEvents(result.Rollup)...)...)

	return &result, nil
}

// CompletionResult is an order item after its completion flag changed
type CompletionResult struct {
	Item   models.OrderItem `json:"order_item"`
	Rollup RollupResult     `json:"order"`
}

// MarkCompleted completes an order item, optionally linking the photo that
// shows it. A linked photo is matched to the item, keeping its recorded
// confidence or 1.0 if it has none.
func (s *ReconciliationService) MarkCompleted(ctx context.Context, orderItemID uint, photoID *uint) (*CompletionResult, error) {
	var result CompletionResult
	var published []events.Event

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := findItem(tx, orderItemID)
		if err != nil {
			return err
		}
		now := s.now()

		if photoID != nil {
			photo, err := findPhoto(tx, *photoID)
			if err != nil {
				return err
			}
			confidence := manualConfidence
			if photo.ConfidenceScore != nil {
				confidence = *photo.ConfidenceScore
			}
			reason := photo.Reason
			if photo.Status != models.PhotoMatched || photo.OrderItemID == nil || *photo.OrderItemID != item.ID {
				reason = models.ReasonManualAssignment
			}
			evts, err := s.linkPhoto(tx, &photo, &item, confidence, reason, now)
			if err != nil {
				return err
			}
			published = evts
		} else if !item.IsCompleted() {
			if err := tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).Updates(map[string]any{
				"completion_status": models.CompletionCompleted,
				"completed_at":      now,
			}).Error; err != nil {
				return fmt.Errorf("failed to complete order item %d: %w", item.ID, err)
			}
			item.CompletionStatus = models.CompletionCompleted
			item.CompletedAt = &now
		}

		rollup, err := RollupOrder(tx, item.OrderID, now)
		if err != nil {
			return err
		}
		result = CompletionResult{Item: item, Rollup: rollup}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order item completed", "order_item_id", orderItemID,
		"completed_items", result.Rollup.CompletedItems, "total_items", result.Rollup.TotalItems)
	s.publish(ctx, append(published, rollupEvents(result.Rollup)...)...)

	return &result, nil
}

// UnmarkCompleted returns an order item to pending. A photo matched to the
// item keeps its matched status; reviewers resolve that with Unmatch.
func (s *ReconciliationService) UnmarkCompleted(ctx context.Context, orderItemID uint) (*CompletionResult, error) {
	var result CompletionResult
	var stalePhotoID *uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := findItem(tx, orderItemID)
		if err != nil {
			return err
		}
		stalePhotoID = item.CompletionPhotoID

		if err := resetItem(tx, item.ID); err != nil {
			return err
		}
		item.CompletionStatus = models.CompletionPending
		item.CompletionPhotoID = nil
		item.CompletedAt = nil

		rollup, err := RollupOrder(tx, item.OrderID, s.now())
		if err != nil {
			return err
		}
		result = CompletionResult{Item: item, Rollup: rollup}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stalePhotoID != nil {
		s.logger.Warn("order item uncompleted while its photo stays matched",
			"order_item_id", orderItemID, "photo_id", *stalePhotoID)
	}
	s.logger.Info("order item uncompleted", "order_item_id", orderItemID,
		"completed_items", result.Rollup.CompletedItems, "total_items", result.Rollup.TotalItems)
	s.publish(ctx, rollupEvents(result.Rollup)...)

	return &result, nil
}

// PhotoFilter narrows ListPhotos
type PhotoFilter struct {
	Status     *models.PhotoStatus
	FacilityID *uint
	Limit      int
}

// ListPhotos returns photos newest first, each with a viewable image URL
func (s *ReconciliationService) ListPhotos(ctx context.Context, filter PhotoFilter) ([]models.CompletionPhoto, error) {
	query := s.db.WithContext(ctx).Model(&models.CompletionPhoto{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FacilityID != nil {
		query = query.Where("facility_id = ?", *filter.FacilityID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var photos []models.CompletionPhoto
	if err := query.Order("uploaded_at DESC").Order("id DESC").Limit(limit).Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list completion photos: %w", err)
	}

	for i := range photos {
		s.attachURL(ctx, &photos[i])
	}
	return photos, nil
}

// GetPhoto returns one photo with its matched order item
func (s *ReconciliationService) GetPhoto(ctx context.Context, photoID uint) (*models.CompletionPhoto, error) {
	var photo models.CompletionPhoto
	err := s.db.WithContext(ctx).Preload("OrderItem").Preload("OrderItem.Order").First(&photo, photoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to load completion photo %d: %w", photoID, err)
	}
	s.attachURL(ctx, &photo)
	return &photo, nil
}

func (s *ReconciliationService) attachURL(ctx context.Context, photo *models.CompletionPhoto) {
	url, err := s.images.GetImageURL(ctx, photo.ImageKey)
	if err != nil {
		s.logger.Warn("failed to generate photo URL", "photo_id", photo.ID, "error", err)
		return
	}
	photo.ImageURL = &url
}

func (s *ReconciliationService) publishSubmit(ctx context.Context, result *SubmitResult) {
	e := events.New(events.PhotoNeedsReview)
	if result.Status == models.PhotoMatched {
		e = events.New(events.PhotoMatched)
		e.OrderItemID = result.MatchedItem.OrderItemID
		e.OrderID = result.MatchedItem.OrderID
		e.Confidence = result.Confidence
	}
	e.FacilityID = result.Photo.FacilityID
	e.PhotoID = result.Photo.ID
	e.Reason = result.Reason

	evts := []events.Event{e}
	if result.Rollup != nil {
		evts = append(evts, rollupEvents(*result.Rollup)...)
	}
	s.publish(ctx, evts...)
}

// publish runs after commit; a failed publish is logged, never surfaced
func (s *ReconciliationService) publish(ctx context.Context, evts ...events.Event) {
	if len(evts) == 0 {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), evts...); err != nil {
		s.logger.Error("failed to publish events", "count", len(evts), "error", err)
	}
}

func rollupEvents(r RollupResult) []events.Event {
	if !r.Changed() {
		return nil
	}
	var e events.Event
	switch {
	case r.Status == models.OrderStatusCompleted:
		e = events.New(events.OrderCompleted)
	case r.PreviousStatus == models.OrderStatusCompleted:
		e = events.New(events.OrderReopened)
	default:
		return nil
	}
	e.OrderID = r.OrderID
	return []events.Event{e}
}

func findPhoto(tx *gorm.DB, id uint) (models.CompletionPhoto, error) {
	var photo models.CompletionPhoto
	if err := tx.First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return photo, ErrPhotoNotFound
		}
		return photo, fmt.Errorf("failed to load completion photo %d: %w", id, err)
	}
	return photo, nil
}

func findItem(tx *gorm.DB, id uint) (models.OrderItem, error) {
	var item models.OrderItem
	if err := tx.Preload("Order").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, ErrOrderItemNotFound
		}
		return item, fmt.Errorf("failed to load order item %d: %w", id, err)
	}
	return item, nil
}

func resetItem(tx *gorm.DB, id uint) error {
	if err := tx.Model(&models.OrderItem{}).Where("id = ?", id).Updates(map[string]any{
		"completion_status":   models.CompletionPending,
		"completion_photo_id": nil,
		"completed_at":        nil,
	}).Error; err != nil {
		return fmt.Errorf("failed to reset order item %d: %w", id, err)
	}
	return nil
}

func demotePhoto(tx *gorm.DB, id uint) error {
	if err := tx.Model(&models.CompletionPhoto{}).Where("id = ?", id).Updates(map[string]any{
		"status":           models.PhotoNeedsReview,
		"order_item_id":    nil,
		"confidence_score": nil,
		"reason":           models.ReasonUnmatched,
	}).Error; err != nil {
		return fmt.Errorf("failed to return photo %d to review: %w", id, err)
	}
	return nil
}

func summarizeItem(item models.OrderItem, score *float64) ItemSummary {
	summary := ItemSummary{
		OrderItemID: item.ID,
		OrderID:     item.OrderID,
		Color:       item.Color,
		Size:        item.Size,
		Quantity:    item.Quantity,
		Score:       score,
	}
	if item.Order != nil {
		summary.OrderNumber = item.Order.OrderNumber
	}
	if score != nil {
		summary.Quality = matching.Quality(*score)
	}
	return summary
}

// summarize lists either unscored items or ranked candidates, best first
func summarize(items []models.OrderItem, ranked []matching.Scored[models.OrderItem]) []ItemSummary {
	out := make([]ItemSummary, 0, len(items)+len(ranked))
	for _, item := range items {
		out = append(out, summarizeItem(item, nil))
	}
	for _, r := range ranked {
		score := r.Score
		out = append(out, summarizeItem(r.Item, &score))
	}
	return out
}
