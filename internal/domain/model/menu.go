package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a catalog entry.
type MenuItem struct {
	ID                 int64
	Name               string `validate:"required"`
	Description        string
	Price              decimal.Decimal
	PreparationMinutes int    `validate:"gte=0"`
	ImageURL           string `validate:"omitempty,url"`
}

// PreparationTime returns the preparation time as a duration.
func (m MenuItem) PreparationTime() time.Duration {
	return time.Duration(m.PreparationMinutes) * time.Minute
}

// CanteenStatus is the single open/closed switch of the canteen.
type CanteenStatus string

const (
	CanteenOpen   CanteenStatus = "OPEN"
	CanteenClosed CanteenStatus = "CLOSED"
)

// Valid reports whether s is a known status.
func (s CanteenStatus) Valid() bool {
	return s == CanteenOpen || s == CanteenClosed
}
