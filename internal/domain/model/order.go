package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the position of an active order in its lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Final reports whether no further status transition is allowed.
func (s OrderStatus) Final() bool {
	return s != OrderStatusPending
}

// Order is an active order owned by the lifecycle store.
type Order struct {
	ID                      int64
	CustomerName            string
	TotalPrice              decimal.Decimal
	Status                  OrderStatus
	OrderDate               time.Time
	EstimatedCompletionTime *time.Time
}

// CancellableAt reports whether the order is still inside the cancellation window at now.
func (o Order) CancellableAt(now time.Time, window time.Duration) bool {
	return now.Sub(o.OrderDate) <= window
}

// LineItem is a single cart entry of an active order. Name is resolved from
// the menu catalog on read and is empty on write.
type LineItem struct {
	OrderID      int64
	ItemID       int64
	Name         string
	Quantity     int
	PricePerItem decimal.Decimal
}

// Subtotal returns quantity multiplied by the snapshot price.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.PricePerItem.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// MaxLineQuantity caps the quantity of one item in an order, both per cart
// entry and after repeated entries are merged.
const MaxLineQuantity = 1000

// CartLine is a customer supplied cart entry.
type CartLine struct {
	ItemID   int64 `validate:"gt=0"`
	Quantity int   `validate:"gte=1,lte=1000"`
	Price    decimal.Decimal
}

// OrderDraft carries everything needed to place an order.
type OrderDraft struct {
	CustomerName string     `validate:"required"`
	Cart         []CartLine `validate:"required,min=1,dive"`
	TotalPrice   decimal.Decimal
}
