package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/canteen/internal/server/http/dto"
)

// AdminHandler serves the staff dashboard and archival transitions.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler creates AdminHandler instance.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Dashboard handles GET /api/admin/orders.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	orders, err := h.facade.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.DashboardResponse{Success: true, Orders: make([]dto.DashboardOrder, 0, len(orders))}
	for _, order := range orders {
		resp.Orders = append(resp.Orders, dto.DashboardOrder{
			OrderID:                 order.ID,
			CustomerName:            order.CustomerName,
			TotalPrice:              dto.Money(order.TotalPrice),
			Status:                  string(order.Status),
			OrderDate:               order.OrderDate,
			EstimatedCompletionTime: order.EstimatedCompletionTime,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// MarkReady handles POST /api/admin/orders/:id/ready.
func (h *AdminHandler) MarkReady(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	archived, err := h.facade.MarkReady(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, err)
		return
	}

	message := "order archived"
	if archived.WasLate {
		message = "order archived late"
	}
	c.JSON(http.StatusOK, dto.MarkReadyResponse{
		Success:        true,
		Message:        message,
		OrderID:        archived.OrderID,
		WasLate:        archived.WasLate,
		CompletionTime: archived.CompletionTime,
	})
}

// OrderItems handles GET /api/admin/orders/:id/items.
func (h *AdminHandler) OrderItems(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	items, err := h.facade.OrderItems(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderItemsResponse{Success: true, Items: toItemResponses(items)})
}

// Reset handles POST /api/admin/reset.
func (h *AdminHandler) Reset(c *gin.Context) {
	if err := h.facade.ResetDay(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "daily orders and archive cleared"})
}

// History handles GET /api/admin/history.
func (h *AdminHandler) History(c *gin.Context) {
	report, err := h.facade.SalesHistory(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.HistoryResponse{
		Success:    true,
		Orders:     make([]dto.ArchivedOrderResponse, 0, len(report.Orders)),
		TotalSales: dto.Money(report.TotalSales),
	}
	for _, order := range report.Orders {
		resp.Orders = append(resp.Orders, dto.ArchivedOrderResponse{
			OrderID:                 order.OrderID,
			CustomerName:            order.CustomerName,
			TotalPrice:              dto.Money(order.TotalPrice),
			OrderDate:               order.OrderDate,
			EstimatedCompletionTime: order.EstimatedCompletionTime,
			CompletionTime:          order.CompletionTime,
			WasLate:                 order.WasLate,
		})
	}
	c.JSON(http.StatusOK, resp)
}
