package store

import (
	"context"

	"github.com/serviyapp/serviyapp-api/models"
	"gorm.io/gorm"
)

// UserStore persists User accounts
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a UserStore backed by db
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail returns the user with the given email regardless of status
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByID returns the user with the given id
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// List returns users, newest first, optionally filtered by status
func (s *UserStore) List(ctx context.Context, status models.Status) ([]models.User, error) {
	query := s.db.WithContext(ctx).Order("registration_date DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// Create inserts a new user. The email is normalized before insert.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

// Update applies fields to the user and returns the fresh record
func (s *UserStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, translate(err)
		}
	}
	return s.FindByID(ctx, id)
}
