package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serviyapp/serviyapp-api/auth"
	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/store"
	"go.uber.org/zap"
)

// CreateOrderRequest represents the request body for creating a service order
type CreateOrderRequest struct {
	ProviderID  string `json:"provider_id" binding:"required,max=36"`
	Name        string `json:"name" binding:"required,max=150"`
	Description string `json:"description" binding:"required"`
}

// UpdateOrderStatusRequest represents the request body for moving an order to a new status
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required,oneof=accepted completed cancelled"`
}

// statusChangers lists which roles may move an order into each status.
// Admins may apply any transition.
var statusChangers = map[models.OrderStatus]models.Role{
	models.OrderAccepted:  models.RoleProvider,
	models.OrderCompleted: models.RoleProvider,
	models.OrderCancelled: models.RoleUser,
}

// OrderController serves the /orders resource
type OrderController struct {
	orders    *store.OrderStore
	providers *store.ProviderStore
	logger    *zap.Logger
}

// NewOrderController creates an OrderController
func NewOrderController(orders *store.OrderStore, providers *store.ProviderStore, logger *zap.Logger) *OrderController {
	return &OrderController{
		orders:    orders,
		providers: providers,
		logger:    logger,
	}
}

// CreateOrder handles POST /orders (users only). The provider must be active.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	claims := principal(c)
	if claims == nil {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	provider, err := oc.providers.FindByID(ctx, req.ProviderID)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}
	if provider.Status != models.StatusActive {
		writeError(c, http.StatusConflict, "PROVIDER_UNAVAILABLE", "Provider is not accepting orders")
		return
	}

	order := &models.ServiceOrder{
		Name:        req.Name,
		Description: req.Description,
		Status:      models.OrderPending,
		UserID:      claims.ID,
		ProviderID:  provider.ID,
	}
	if err := oc.orders.Create(ctx, order); err != nil {
		respondError(c, oc.logger, err)
		return
	}

	oc.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("provider_id", order.ProviderID),
	)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /orders. Users see the orders they placed, providers
// the orders addressed to them and Admins every order.
func (oc *OrderController) ListOrders(c *gin.Context) {
	claims := principal(c)
	if claims == nil {
		return
	}

	var (
		orders []models.ServiceOrder
		err    error
	)
	ctx := c.Request.Context()
	switch claims.Role {
	case models.RoleAdmin:
		orders, err = oc.orders.ListAll(ctx)
	case models.RoleProvider:
		orders, err = oc.orders.ListByProvider(ctx, claims.ID)
	default:
		orders, err = oc.orders.ListByUser(ctx, claims.ID)
	}
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"count":   len(orders),
	})
}

// GetOrder handles GET /orders/:id for participants and Admins
func (oc *OrderController) GetOrder(c *gin.Context) {
	order, ok := oc.visibleOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// UpdateOrderStatus handles PATCH /orders/:id/status
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	order, ok := oc.visibleOrder(c)
	if !ok {
		return
	}
	claims := principal(c)
	if claims == nil {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if claims.Role != models.RoleAdmin && statusChangers[req.Status] != claims.Role {
		writeError(c, http.StatusForbidden, auth.ErrForbidden.Code, "Your role cannot set this status")
		return
	}
	if !order.CanTransitionTo(req.Status) {
		writeError(c, http.StatusConflict, "INVALID_TRANSITION", "Order cannot move from "+string(order.Status)+" to "+string(req.Status))
		return
	}

	updated, err := oc.orders.UpdateStatus(c.Request.Context(), order.ID, req.Status)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	oc.logger.Info("Order status changed",
		zap.String("order_id", order.ID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(updated.Status)),
		zap.String("by", claims.ID),
	)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// visibleOrder loads the :id order and checks the caller may see it.
// Non-participants get a 404 so order ids are not disclosed.
func (oc *OrderController) visibleOrder(c *gin.Context) (*models.ServiceOrder, bool) {
	claims := principal(c)
	if claims == nil {
		return nil, false
	}

	order, err := oc.orders.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, oc.logger, err)
		return nil, false
	}
	if claims.Role != models.RoleAdmin && !order.IsParticipant(claims.ID) {
		respondError(c, oc.logger, store.ErrNotFound)
		return nil, false
	}
	return order, true
}
