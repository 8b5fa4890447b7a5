package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an end-customer account
type User struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	Names            string    `gorm:"size:100;not null" json:"names"`
	Surnames         string    `gorm:"size:100" json:"surnames"`
	Email            string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash     string    `gorm:"column:password_hash" json:"-"` // empty for Google-only accounts
	Phone            string    `gorm:"size:20" json:"phone"`
	ProfilePicture   string    `json:"profile_picture,omitempty"` // S3 key
	Role             Role      `gorm:"size:20;not null;default:'user'" json:"role"`
	Status           Status    `gorm:"size:20;not null;default:'active'" json:"status"`
	IsCompleted      bool      `gorm:"not null;default:false" json:"is_completed"`
	RegistrationDate time.Time `gorm:"autoCreateTime" json:"registration_date"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when none was set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) GetID() string           { return u.ID }
func (u *User) GetEmail() string        { return u.Email }
func (u *User) GetRole() Role           { return u.Role }
func (u *User) GetStatus() Status       { return u.Status }
func (u *User) GetPasswordHash() string { return u.PasswordHash }
func (u *User) ProfileCompleted() bool  { return u.IsCompleted }
func (u *User) Variant() Variant        { return VariantUser }
