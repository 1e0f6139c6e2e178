package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/canteen/internal/domain/model"
	"github.com/polkiloo/canteen/internal/server/http/dto"
)

// OrderHandler serves the customer side of the order lifecycle.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler creates OrderHandler instance.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed order request")
		return
	}

	draft := model.OrderDraft{
		CustomerName: req.CustomerName,
		TotalPrice:   req.TotalPrice,
		Cart:         make([]model.CartLine, 0, len(req.Cart)),
	}
	for _, line := range req.Cart {
		draft.Cart = append(draft.Cart, model.CartLine{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}

	orderID, err := h.facade.PlaceOrder(c.Request.Context(), draft)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.PlaceOrderResponse{Success: true, OrderID: orderID})
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.facade.CancelOrder(c.Request.Context(), orderID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "order cancelled"})
}

// Status handles GET /api/orders/:id and renders the receipt view.
func (h *OrderHandler) Status(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.facade.OrderStatus(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OrderStatusResponse{
		Success:        true,
		OrderID:        view.OrderID,
		Status:         string(view.Status),
		CustomerName:   view.CustomerName,
		TotalPrice:     dto.Money(view.TotalPrice),
		OrderDate:      view.OrderDate,
		CompletionTime: view.CompletionTime,
		Items:          toItemResponses(view.Items),
	})
}
