package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/utils"
)

// MockImageService is an in-memory ImageService for controller tests
type MockImageService struct {
	images  map[string]string // image key to original filename
	deleted []string
	mu      sync.RWMutex
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{
		images: make(map[string]string),
	}
}

// UploadProfilePicture validates the file and records it under the account prefix
func (m *MockImageService) UploadProfilePicture(ctx context.Context, variant models.Variant, accountID string, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	imageKey := fmt.Sprintf("%s/mock_%s", ProfilePrefix(variant, accountID), fileHeader.Filename)

	m.mu.Lock()
	m.images[imageKey] = fileHeader.Filename
	m.mu.Unlock()

	return imageKey, nil
}

// GetImageURL returns a fake URL for the key
func (m *MockImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" || isExternalURL(imageKey) {
		return imageKey, nil
	}
	return "https://mock-storage.example.com/" + imageKey, nil
}

// DeleteImage forgets an image and records the deletion
func (m *MockImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.images, imageKey)
	m.deleted = append(m.deleted, imageKey)
	m.mu.Unlock()

	return nil
}

// ImageExists checks if an image exists in mock storage
func (m *MockImageService) ImageExists(imageKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.images[imageKey]
	return exists
}

// Deleted returns the keys passed to DeleteImage
func (m *MockImageService) Deleted() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.deleted...)
}
