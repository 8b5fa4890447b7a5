package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider represents a service provider account
type Provider struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	Names            string    `gorm:"size:150;not null" json:"names"`
	Surnames         string    `gorm:"size:50" json:"surnames"`
	Handle           string    `gorm:"uniqueIndex;size:20;not null" json:"handle"`
	Email            string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash     string    `gorm:"column:password_hash" json:"-"`
	Phone            string    `gorm:"size:20" json:"phone"`
	Address          string    `gorm:"size:150" json:"address"`
	CountryID        *string   `gorm:"size:36;index" json:"country_id"`
	Country          *Country  `gorm:"foreignKey:CountryID" json:"country,omitempty"`
	RegionID         *string   `gorm:"size:36;index" json:"region_id"`
	Region           *Region   `gorm:"foreignKey:RegionID" json:"region,omitempty"`
	CityID           *string   `gorm:"size:36;index" json:"city_id"`
	City             *City     `gorm:"foreignKey:CityID" json:"city,omitempty"`
	ProfilePicture   string    `json:"profile_picture,omitempty"`
	Role             Role      `gorm:"size:20;not null;default:'provider'" json:"role"`
	Status           Status    `gorm:"size:20;not null;default:'pending'" json:"status"`
	IsCompleted      bool      `gorm:"not null;default:false" json:"is_completed"`
	RegistrationDate time.Time `gorm:"autoCreateTime" json:"registration_date"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Provider model
func (Provider) TableName() string {
	return "providers"
}

// BeforeCreate assigns a UUID when none was set
func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// HasCompleteProfile reports whether every profile field a provider needs is present
func (p *Provider) HasCompleteProfile() bool {
	return p.Names != "" && p.Surnames != "" && p.Handle != "" &&
		p.Phone != "" && p.Address != "" &&
		p.CountryID != nil && p.RegionID != nil && p.CityID != nil
}

func (p *Provider) GetID() string           { return p.ID }
func (p *Provider) GetEmail() string        { return p.Email }
func (p *Provider) GetRole() Role           { return p.Role }
func (p *Provider) GetStatus() Status       { return p.Status }
func (p *Provider) GetPasswordHash() string { return p.PasswordHash }
func (p *Provider) ProfileCompleted() bool  { return p.IsCompleted }
func (p *Provider) Variant() Variant        { return VariantProvider }
