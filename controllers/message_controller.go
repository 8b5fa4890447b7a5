package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serviyapp/serviyapp-api/models"
	"go.uber.org/zap"
)

// CreateMessageRequest represents the request body for posting a message on an order
type CreateMessageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// MessageController serves /orders/:id/messages. It shares order visibility
// rules with OrderController.
type MessageController struct {
	orders *OrderController
	logger *zap.Logger
}

// NewMessageController creates a MessageController that checks access through orders
func NewMessageController(orders *OrderController, logger *zap.Logger) *MessageController {
	return &MessageController{orders: orders, logger: logger}
}

// CreateMessage handles POST /orders/:id/messages
func (mc *MessageController) CreateMessage(c *gin.Context) {
	order, ok := mc.orders.visibleOrder(c)
	if !ok {
		return
	}
	claims := principal(c)
	if claims == nil {
		return
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	message := &models.Message{
		OrderID:    order.ID,
		SenderID:   claims.ID,
		SenderRole: claims.Role,
		Text:       req.Text,
	}
	if err := mc.orders.orders.CreateMessage(c.Request.Context(), message); err != nil {
		respondError(c, mc.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// ListMessages handles GET /orders/:id/messages in chronological order
func (mc *MessageController) ListMessages(c *gin.Context) {
	order, ok := mc.orders.visibleOrder(c)
	if !ok {
		return
	}

	messages, err := mc.orders.orders.ListMessages(c.Request.Context(), order.ID)
	if err != nil {
		respondError(c, mc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
		"count":   len(messages),
	})
}
