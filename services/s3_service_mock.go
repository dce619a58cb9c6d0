package services

import (
	"context"
	"fmt"
	"sync"
)

// MockS3Service is an in-memory S3Interface for tests and local runs without a bucket
type MockS3Service struct {
	objects map[string][]byte // map of S3 key to file content
	mu      sync.RWMutex

	// PutErr and DeleteErr, when set, make the matching call fail
	PutErr    error
	DeleteErr error
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		objects: make(map[string][]byte),
	}
}

// PutObject stores content under key
func (m *MockS3Service) PutObject(_ context.Context, key string, content []byte, _ string) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	m.objects[key] = append([]byte(nil), content...)
	m.mu.Unlock()
	return nil
}

// GetObject returns the content stored under key
func (m *MockS3Service) GetObject(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	content, exists := m.objects[key]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("file not found in mock S3: %s", key)
	}
	return append([]byte(nil), content...), nil
}

// GetPresignedURL simulates generating a presigned URL
func (m *MockS3Service) GetPresignedURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	if !m.FileExists(key) {
		return "", fmt.Errorf("file not found in mock S3: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// DeleteFile removes key from mock storage
func (m *MockS3Service) DeleteFile(_ context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()

	return nil
}

// Seed stores content directly, e.g. a design image referenced by an order item
func (m *MockS3Service) Seed(key string, content []byte) {
	m.mu.Lock()
	m.objects[key] = content
	m.mu.Unlock()
}

// Keys returns all stored keys (for testing assertions)
func (m *MockS3Service) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}

// FileExists checks if a file exists in mock storage
func (m *MockS3Service) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.objects[key]
	return exists
}
