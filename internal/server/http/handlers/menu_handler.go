package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/canteen/internal/domain/model"
	"github.com/polkiloo/canteen/internal/server/http/dto"
)

// MenuHandler exposes the catalog publicly and its maintenance to staff.
type MenuHandler struct {
	facade MenuFacade
}

// NewMenuHandler creates MenuHandler instance.
func NewMenuHandler(facade MenuFacade) *MenuHandler {
	return &MenuHandler{facade: facade}
}

// List handles GET /api/menu.
func (h *MenuHandler) List(c *gin.Context) {
	items, err := h.facade.Menu(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.MenuResponse{Success: true, Items: make([]dto.MenuItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, toMenuItemResponse(item))
	}
	c.JSON(http.StatusOK, resp)
}

// Status handles GET /api/canteen/status.
func (h *MenuHandler) Status(c *gin.Context) {
	status, err := h.facade.CanteenStatus(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CanteenStatusResponse{Success: true, Status: string(status)})
}

// Create handles POST /api/admin/menu.
func (h *MenuHandler) Create(c *gin.Context) {
	var req dto.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed menu item")
		return
	}

	created, err := h.facade.CreateMenuItem(c.Request.Context(), fromMenuItemRequest(0, req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MenuItemCreatedResponse{Success: true, Item: toMenuItemResponse(*created)})
}

// Update handles PUT /api/admin/menu/:id.
func (h *MenuHandler) Update(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed menu item")
		return
	}

	if err := h.facade.UpdateMenuItem(c.Request.Context(), fromMenuItemRequest(itemID, req)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "menu item updated"})
}

// Delete handles DELETE /api/admin/menu/:id.
func (h *MenuHandler) Delete(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.facade.DeleteMenuItem(c.Request.Context(), itemID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "menu item deleted"})
}

// SetStatus handles PUT /api/admin/canteen/status.
func (h *MenuHandler) SetStatus(c *gin.Context) {
	var req dto.CanteenStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed status request")
		return
	}

	if err := h.facade.SetCanteenStatus(c.Request.Context(), model.CanteenStatus(req.Status)); err != nil {
		writeError(c, err)
		return
	}

	status, err := h.facade.CanteenStatus(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CanteenStatusResponse{Success: true, Status: string(status)})
}

func fromMenuItemRequest(id int64, req dto.MenuItemRequest) model.MenuItem {
	return model.MenuItem{
		ID:                 id,
		Name:               req.Name,
		Description:        req.Description,
		Price:              req.Price,
		PreparationMinutes: req.PreparationTime,
		ImageURL:           req.ImageURL,
	}
}

func toMenuItemResponse(item model.MenuItem) dto.MenuItemResponse {
	return dto.MenuItemResponse{
		ItemID:          item.ID,
		Name:            item.Name,
		Description:     item.Description,
		Price:           dto.Money(item.Price),
		PreparationTime: item.PreparationMinutes,
		ImageURL:        item.ImageURL,
	}
}
