package dto

import "github.com/shopspring/decimal"

// MenuItemRequest creates or replaces a catalog item.
type MenuItemRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	PreparationTime int             `json:"preparation_time"`
	ImageURL        string          `json:"image_url"`
}

type MenuItemResponse struct {
	ItemID          int64  `json:"item_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           Money  `json:"price"`
	PreparationTime int    `json:"preparation_time"`
	ImageURL        string `json:"image_url"`
}

type MenuResponse struct {
	Success bool               `json:"success"`
	Items   []MenuItemResponse `json:"items"`
}

type MenuItemCreatedResponse struct {
	Success bool             `json:"success"`
	Item    MenuItemResponse `json:"item"`
}

type CanteenStatusRequest struct {
	Status string `json:"status"`
}

type CanteenStatusResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}
