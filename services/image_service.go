package services

import (
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ImageService stores completion photos and reads design references
type ImageService interface {
	// StorePhoto uploads a completion photo and returns its storage key
	StorePhoto(ctx context.Context, facilityID uint, content []byte, contentType string) (string, error)

	// LoadImage downloads the raw bytes stored under key
	LoadImage(ctx context.Context, key string) ([]byte, error)

	// GetImageURL generates a URL for viewing a stored image
	GetImageURL(ctx context.Context, key string) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(ctx context.Context, key string) error
}

// S3ImageService implements ImageService on top of an S3Interface
type S3ImageService struct {
	s3Service S3Interface
}

// NewImageService creates an image service backed by s3Service
func NewImageService(s3Service S3Interface) *S3ImageService {
	return &S3ImageService{s3Service: s3Service}
}

// PhotoKey builds the storage key for a new completion photo.
// Format: completion-photos/{facility}/{uuid}{ext}
func PhotoKey(facilityID uint, contentType string) string {
	ext := ""
	if m := mimetype.Lookup(contentType); m != nil {
		ext = m.Extension()
	}
	return fmt.Sprintf("completion-photos/%d/%s%s", facilityID, uuid.NewString(), ext)
}

// StorePhoto uploads the photo under a fresh key
func (s *S3ImageService) StorePhoto(ctx context.Context, facilityID uint, content []byte, contentType string) (string, error) {
	key := PhotoKey(facilityID, contentType)
	if err := s.s3Service.PutObject(ctx, key, content, contentType); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

// LoadImage downloads an image
func (s *S3ImageService) LoadImage(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("empty image key")
	}
	return s.s3Service.GetObject(ctx, key)
}

// GetImageURL generates a presigned URL for accessing an image
func (s *S3ImageService) GetImageURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}

	return url, nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(ctx, key); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}
