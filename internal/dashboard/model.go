package dashboard

import "time"

// Summary is the aggregated back-office overview.
type Summary struct {
	Products          int64            `json:"products"`
	Customers         int64            `json:"customers"`
	Suppliers         int64            `json:"suppliers"`
	Stores            int64            `json:"stores"`
	QuotationStatuses map[string]int64 `json:"quotation_statuses"`
	PurchaseStatuses  map[string]int64 `json:"purchase_statuses"`
	LowStockProducts  int64            `json:"low_stock_products"`
	RecentMovements   []RecentMovement `json:"recent_movements"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// RecentMovement is a compact stock movement row for the overview feed.
type RecentMovement struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	Direction   string    `json:"direction"`
	Quantity    int64     `json:"quantity"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
