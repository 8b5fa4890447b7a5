package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Country is the top level of the location hierarchy
type Country struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Code string `gorm:"uniqueIndex;size:5;not null" json:"code"` // e.g. CO, AR, MX
}

func (Country) TableName() string { return "countries" }

func (c *Country) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Region belongs to a country
type Region struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	CountryID string `gorm:"size:36;not null;index" json:"country_id"`
}

func (Region) TableName() string { return "regions" }

func (r *Region) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// City belongs to a region
type City struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	RegionID string `gorm:"size:36;not null;index" json:"region_id"`
}

func (City) TableName() string { return "cities" }

func (c *City) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
