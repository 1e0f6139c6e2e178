package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ArchivedOrder is an immutable snapshot of an order that left the active store.
type ArchivedOrder struct {
	OrderID                 int64
	CustomerName            string
	TotalPrice              decimal.Decimal
	OrderDate               time.Time
	EstimatedCompletionTime *time.Time
	CompletionTime          time.Time
	WasLate                 bool
	Items                   []ArchivedLineItem
}

// ArchivedLineItem keeps the item name as a literal so history survives catalog edits.
type ArchivedLineItem struct {
	OrderID      int64
	ItemName     string
	Quantity     int
	PricePerItem decimal.Decimal
}

// NewArchivedOrder snapshots order and its line items at completion time now.
func NewArchivedOrder(order Order, items []LineItem, now time.Time) ArchivedOrder {
	archived := ArchivedOrder{
		OrderID:                 order.ID,
		CustomerName:            order.CustomerName,
		TotalPrice:              order.TotalPrice,
		OrderDate:               order.OrderDate,
		EstimatedCompletionTime: order.EstimatedCompletionTime,
		CompletionTime:          now,
		WasLate:                 WasLate(order.EstimatedCompletionTime, now),
		Items:                   make([]ArchivedLineItem, 0, len(items)),
	}
	for _, item := range items {
		archived.Items = append(archived.Items, ArchivedLineItem{
			OrderID:      order.ID,
			ItemName:     item.Name,
			Quantity:     item.Quantity,
			PricePerItem: item.PricePerItem,
		})
	}
	return archived
}

// WasLate reports whether an order with the given estimate is late at now.
// Orders without an estimate are never late.
func WasLate(estimated *time.Time, now time.Time) bool {
	return estimated != nil && estimated.Before(now)
}

// SalesReport summarises the archive.
type SalesReport struct {
	Orders     []ArchivedOrder
	TotalSales decimal.Decimal
}
