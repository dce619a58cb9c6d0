package utils

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// MaxFileSize is 16MB in bytes
	MaxFileSize = 16 * 1024 * 1024
)

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateImageFile checks the uploaded file size. Content is not checked
// here: photos that cannot be decoded are still stored and sent to review.
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}
	if fileHeader.Size == 0 {
		return &FileUploadError{
			Code:    "EMPTY_FILE",
			Message: "Uploaded file is empty",
		}
	}
	return nil
}

// ReadUploadedFile validates and reads an uploaded file, returning its
// content and the content type sniffed from the bytes.
func ReadUploadedFile(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	if err := ValidateImageFile(fileHeader); err != nil {
		return nil, "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: failed to close uploaded file: %v", closeErr)
		}
	}()

	// Read one byte past the limit so a lying Size header cannot slip through
	content, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(content) > MaxFileSize {
		return nil, "", &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	return content, mimetype.Detect(content).String(), nil
}
