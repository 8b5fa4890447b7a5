package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/utils"
)

// ImageService manages account profile pictures
type ImageService interface {
	// UploadProfilePicture validates and stores a picture for the account, returning its key
	UploadProfilePicture(ctx context.Context, variant models.Variant, accountID string, fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL returns a URL for reading a stored picture
	GetImageURL(ctx context.Context, imageKey string) (string, error)

	// DeleteImage removes a stored picture
	DeleteImage(ctx context.Context, imageKey string) error
}

// S3ImageService implements ImageService on top of S3
type S3ImageService struct {
	s3Service S3Interface
}

// NewImageService creates an ImageService backed by s3Service
func NewImageService(s3Service S3Interface) *S3ImageService {
	return &S3ImageService{s3Service: s3Service}
}

// ProfilePrefix is the key prefix of an account's pictures
func ProfilePrefix(variant models.Variant, accountID string) string {
	return fmt.Sprintf("profiles/%ss/%s", variant, accountID)
}

// UploadProfilePicture validates the image and uploads it under the account's prefix
func (s *S3ImageService) UploadProfilePicture(ctx context.Context, variant models.Variant, accountID string, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	s3Key, err := s.s3Service.UploadFile(ctx, ProfilePrefix(variant, accountID), fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return s3Key, nil
}

// GetImageURL generates a presigned URL for an image. External URLs are returned as is.
func (s *S3ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" || isExternalURL(imageKey) {
		return imageKey, nil
	}

	url, err := s.s3Service.GetPresignedURL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" || isExternalURL(imageKey) {
		return nil
	}

	if err := s.s3Service.DeleteFile(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

func isExternalURL(key string) bool {
	return strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://")
}

func contentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// ErrStorageUnavailable is returned by uploads when no bucket is configured
var ErrStorageUnavailable = errors.New("image storage is not configured")

// UnavailableImageService is used when S3 is not configured. Google picture
// URLs still resolve; uploads fail with ErrStorageUnavailable.
type UnavailableImageService struct{}

func (UnavailableImageService) UploadProfilePicture(ctx context.Context, variant models.Variant, accountID string, fileHeader *multipart.FileHeader) (string, error) {
	return "", ErrStorageUnavailable
}

func (UnavailableImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" || isExternalURL(imageKey) {
		return imageKey, nil
	}
	return "", ErrStorageUnavailable
}

func (UnavailableImageService) DeleteImage(ctx context.Context, imageKey string) error {
	return nil
}
