package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLineRequest is a single cart entry.
type CartLineRequest struct {
	ItemID   int64           `json:"item_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// PlaceOrderRequest describes the checkout payload.
type PlaceOrderRequest struct {
	CustomerName string            `json:"customer_name"`
	Cart         []CartLineRequest `json:"cart"`
	TotalPrice   decimal.Decimal   `json:"total_price"`
}

type PlaceOrderResponse struct {
	Success bool  `json:"success"`
	OrderID int64 `json:"order_id"`
}

type ItemResponse struct {
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	PricePerItem Money  `json:"price_per_item"`
}

// OrderStatusResponse is the receipt view of an active or archived order.
type OrderStatusResponse struct {
	Success        bool           `json:"success"`
	OrderID        int64          `json:"order_id"`
	Status         string         `json:"status"`
	CustomerName   string         `json:"customer_name"`
	TotalPrice     Money          `json:"total_price"`
	OrderDate      time.Time      `json:"order_date"`
	CompletionTime *time.Time     `json:"completion_time"`
	Items          []ItemResponse `json:"items"`
}
