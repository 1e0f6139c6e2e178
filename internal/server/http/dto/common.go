package dto

import "github.com/shopspring/decimal"

// Money renders a decimal as a JSON number with two fraction digits.
type Money decimal.Decimal

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

// ErrorResponse is the failure body shared by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// MessageResponse acknowledges a command.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
