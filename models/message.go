package models

import (
	"time"

	"gorm.io/gorm"
)

// Message represents a message in a service order conversation
type Message struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OrderID    string         `gorm:"size:36;not null;index" json:"order_id"`
	SenderID   string         `gorm:"size:36;not null;index" json:"sender_id"`
	SenderRole Role           `gorm:"size:20;not null" json:"sender_role"` // sender ids live in users or providers
	Text       string         `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
