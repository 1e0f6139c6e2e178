package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderView is the store independent representation returned by status lookups.
type OrderView struct {
	OrderID        int64
	CustomerName   string
	TotalPrice     decimal.Decimal
	Status         OrderStatus
	OrderDate      time.Time
	CompletionTime *time.Time
	Items          []ItemView
}

// ItemView is a line of an OrderView.
type ItemView struct {
	Name         string
	Quantity     int
	PricePerItem decimal.Decimal
}

// ViewOfOrder builds the view of an active order.
func ViewOfOrder(order Order, items []LineItem) OrderView {
	view := OrderView{
		OrderID:        order.ID,
		CustomerName:   order.CustomerName,
		TotalPrice:     order.TotalPrice,
		Status:         order.Status,
		OrderDate:      order.OrderDate,
		CompletionTime: order.EstimatedCompletionTime,
		Items:          make([]ItemView, 0, len(items)),
	}
	for _, item := range items {
		view.Items = append(view.Items, ItemView{Name: item.Name, Quantity: item.Quantity, PricePerItem: item.PricePerItem})
	}
	return view
}

// ViewOfArchive builds the view of an archived order, which is always Completed.
func ViewOfArchive(archived ArchivedOrder) OrderView {
	completion := archived.CompletionTime
	view := OrderView{
		OrderID:        archived.OrderID,
		CustomerName:   archived.CustomerName,
		TotalPrice:     archived.TotalPrice,
		Status:         OrderStatusCompleted,
		OrderDate:      archived.OrderDate,
		CompletionTime: &completion,
		Items:          make([]ItemView, 0, len(archived.Items)),
	}
	for _, item := range archived.Items {
		view.Items = append(view.Items, ItemView{Name: item.ItemName, Quantity: item.Quantity, PricePerItem: item.PricePerItem})
	}
	return view
}
