package services

import "errors"

var (
	// ErrPhotoNotFound is returned when a completion photo id does not exist
	ErrPhotoNotFound = errors.New("completion photo not found")
	// ErrOrderItemNotFound is returned when an order item id does not exist
	ErrOrderItemNotFound = errors.New("order item not found")
	// ErrPhotoNotMatched is returned when unmatching a photo that is not matched
	ErrPhotoNotMatched = errors.New("completion photo is not matched")
	// ErrInvalidFacility is returned for a zero facility id
	ErrInvalidFacility = errors.New("invalid facility id")
	// ErrStorage wraps failures of the image store
	ErrStorage = errors.New("image storage failed")
)
