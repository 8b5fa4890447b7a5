package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the state of a service order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderAccepted  OrderStatus = "accepted"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// ServiceOrder is a request from a user to a provider
type ServiceOrder struct {
	ID          string      `gorm:"primaryKey;size:36" json:"id"`
	Name        string      `gorm:"size:150;not null" json:"name"`
	Description string      `gorm:"type:text;not null" json:"description"`
	Status      OrderStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	UserID      string      `gorm:"size:36;not null;index" json:"user_id"`
	User        *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProviderID  string      `gorm:"size:36;not null;index" json:"provider_id"`
	Provider    *Provider   `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the ServiceOrder model
func (ServiceOrder) TableName() string {
	return "service_orders"
}

func (o *ServiceOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// IsParticipant reports whether the principal is the order's user or provider
func (o *ServiceOrder) IsParticipant(principalID string) bool {
	return principalID != "" && (o.UserID == principalID || o.ProviderID == principalID)
}

// orderTransitions lists the statuses reachable from each status
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:  {OrderAccepted, OrderCancelled},
	OrderAccepted: {OrderCompleted, OrderCancelled},
}

// CanTransitionTo reports whether the order may move to next
func (o *ServiceOrder) CanTransitionTo(next OrderStatus) bool {
	for _, s := range orderTransitions[o.Status] {
		if s == next {
			return true
		}
	}
	return false
}
