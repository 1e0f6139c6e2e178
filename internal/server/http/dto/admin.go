package dto

import "time"

type DashboardOrder struct {
	OrderID                 int64      `json:"order_id"`
	CustomerName            string     `json:"customer_name"`
	TotalPrice              Money      `json:"total_price"`
	Status                  string     `json:"status"`
	OrderDate               time.Time  `json:"order_date"`
	EstimatedCompletionTime *time.Time `json:"estimated_completion_time"`
}

type DashboardResponse struct {
	Success bool             `json:"success"`
	Orders  []DashboardOrder `json:"orders"`
}

type MarkReadyResponse struct {
	Success        bool      `json:"success"`
	Message        string    `json:"message"`
	OrderID        int64     `json:"order_id"`
	WasLate        bool      `json:"was_late"`
	CompletionTime time.Time `json:"completion_time"`
}

type OrderItemsResponse struct {
	Success bool           `json:"success"`
	Items   []ItemResponse `json:"items"`
}

type ArchivedOrderResponse struct {
	OrderID                 int64      `json:"order_id"`
	CustomerName            string     `json:"customer_name"`
	TotalPrice              Money      `json:"total_price"`
	OrderDate               time.Time  `json:"order_date"`
	EstimatedCompletionTime *time.Time `json:"estimated_completion_time"`
	CompletionTime          time.Time  `json:"completion_time"`
	WasLate                 bool       `json:"was_late"`
}

// HistoryResponse lists the archive with its sales total.
type HistoryResponse struct {
	Success    bool                    `json:"success"`
	Orders     []ArchivedOrderResponse `json:"orders"`
	TotalSales Money                   `json:"total_sales"`
}
