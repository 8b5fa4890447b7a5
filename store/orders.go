package store

import (
	"context"

	"github.com/serviyapp/serviyapp-api/models"
	"gorm.io/gorm"
)

// OrderStore persists service orders and their messages
type OrderStore struct {
	db *gorm.DB
}

// NewOrderStore creates an OrderStore
func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Create inserts the order and reloads it with its participants
func (s *OrderStore) Create(ctx context.Context, order *models.ServiceOrder) error {
	if err := s.db.WithContext(ctx).Omit("User", "Provider").Create(order).Error; err != nil {
		return translate(err)
	}
	return translate(s.db.WithContext(ctx).Preload("User").Preload("Provider").First(order, "id = ?", order.ID).Error)
}

func (s *OrderStore) FindByID(ctx context.Context, id string) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := s.db.WithContext(ctx).Preload("User").Preload("Provider").Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// ListByUser returns orders placed by the user, newest first
func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]models.ServiceOrder, error) {
	return s.list(ctx, s.db.Where("user_id = ?", userID))
}

// ListByProvider returns orders addressed to the provider, newest first
func (s *OrderStore) ListByProvider(ctx context.Context, providerID string) ([]models.ServiceOrder, error) {
	return s.list(ctx, s.db.Where("provider_id = ?", providerID))
}

// ListAll returns every order, newest first
func (s *OrderStore) ListAll(ctx context.Context) ([]models.ServiceOrder, error) {
	return s.list(ctx, s.db)
}

func (s *OrderStore) list(ctx context.Context, query *gorm.DB) ([]models.ServiceOrder, error) {
	var orders []models.ServiceOrder
	err := query.WithContext(ctx).Preload("User").Preload("Provider").Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

// UpdateStatus sets the order status and returns the fresh record
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.ServiceOrder, error) {
	result := s.db.WithContext(ctx).Model(&models.ServiceOrder{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.FindByID(ctx, id)
}

func (s *OrderStore) CreateMessage(ctx context.Context, message *models.Message) error {
	return translate(s.db.WithContext(ctx).Create(message).Error)
}

// ListMessages returns the order's messages in chronological order
func (s *OrderStore) ListMessages(ctx context.Context, orderID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at ASC, id ASC").Find(&messages).Error
	if err != nil {
		return nil, translate(err)
	}
	return messages, nil
}
