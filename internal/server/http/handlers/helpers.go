package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	"github.com/polkiloo/canteen/internal/domain/model"
	"github.com/polkiloo/canteen/internal/server/http/dto"
)

// writeError maps a domain error onto the failure body. Store failures are
// reported generically; their detail stays in the server log.
func writeError(c *gin.Context, err error) {
	var (
		status  int
		reason  string
		message string
	)
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		status, reason, message = http.StatusBadRequest, "validation_failed", validationMessage(err)
	case errors.Is(err, domainErrors.ErrNotFound):
		status, reason, message = http.StatusNotFound, "not_found", "requested resource was not found"
	case errors.Is(err, domainErrors.ErrInvalidState):
		status, reason, message = http.StatusConflict, "already_finalized", "order is already finalized"
	case errors.Is(err, domainErrors.ErrWindowExpired):
		status, reason, message = http.StatusForbidden, "window_expired", "cancellation window has expired"
	case errors.Is(err, domainErrors.ErrMenuItemInUse):
		status, reason, message = http.StatusConflict, "menu_item_in_use", "menu item is referenced by an active order"
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		status, reason, message = http.StatusUnauthorized, "unauthorized", "invalid credentials"
	default:
		status, reason, message = http.StatusInternalServerError, "persistence_failure", "request could not be completed, please retry"
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Reason: reason, Message: message})
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), domainErrors.ErrValidation.Error())
	msg = strings.TrimPrefix(msg, ": ")
	if msg == "" {
		return "invalid request"
	}
	return msg
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Reason: "validation_failed", Message: message})
}

// pathID parses a positive identifier from the named path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func toItemResponses(items []model.ItemView) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ItemResponse{
			Name:         item.Name,
			Quantity:     item.Quantity,
			PricePerItem: dto.Money(item.PricePerItem),
		})
	}
	return out
}
