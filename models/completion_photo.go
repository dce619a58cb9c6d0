package models

import "time"

// Reasons recorded on photos that end up in review
const (
	ReasonNormalizationFailed = "normalization_failed"
	ReasonNoCandidates        = "no_candidates"
	ReasonBelowThreshold      = "below_threshold"
	ReasonMatchConflict       = "match_conflict"
	ReasonUnmatched           = "unmatched"
	ReasonAutoMatch           = "auto_match"
	ReasonManualAssignment    = "manual_assignment"
)

// CompletionPhoto is a photo of a finished item submitted by a print facility.
// Photos are never deleted; unmatched photos stay in review history.
type CompletionPhoto struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	ImageKey        string      `gorm:"not null" json:"image_key"`
	ImageURL        *string     `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for image
	FacilityID      uint        `gorm:"not null;index" json:"facility_id"`
	Status          PhotoStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ConfidenceScore *float64    `json:"confidence_score"`
	BestScore       *float64    `json:"best_score"` // highest score observed at submission, kept for diagnostics
	Reason          string      `gorm:"type:varchar(32)" json:"reason"`
	DetectedColor   *string     `json:"detected_color,omitempty"`
	OrderItemID     *uint       `gorm:"index" json:"order_item_id"`
	OrderItem       *OrderItem  `gorm:"foreignKey:OrderItemID" json:"order_item,omitempty"`
	UploadedAt      time.Time   `gorm:"not null" json:"uploaded_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the CompletionPhoto model
func (CompletionPhoto) TableName() string {
	return "completion_photos"
}

// All returns every model managed by this service, in migration order
func All() []any {
	return []any{&Order{}, &OrderItem{}, &CompletionPhoto{}}
}
