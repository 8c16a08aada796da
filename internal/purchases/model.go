package purchases

import "time"

// Status enumerates purchase lifecycle states.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusOrdered   Status = "ordered"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status is a defined value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusOrdered, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// Purchase is a procurement document header. Lines are immutable after
// creation; edits require cancel and recreate.
type Purchase struct {
	ID             int64     `json:"id"`
	Number         string    `json:"number"`
	AccountID      int64     `json:"account_id"`
	StoreID        *int64    `json:"store_id,omitempty"`
	TotalAmount    float64   `json:"total_amount"`
	DiscountAmount float64   `json:"discount_amount"`
	GrandTotal     float64   `json:"grand_total"`
	Status         Status    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Lines          []Line    `json:"lines,omitempty"`
}

// Line is a purchase line with the unit price snapshotted at creation.
type Line struct {
	ID          int64   `json:"id"`
	PurchaseID  int64   `json:"purchase_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	Subtotal    float64 `json:"subtotal"`
	Notes       string  `json:"notes,omitempty"`
}

// WithNames is a purchase with resolved counterparty and store names.
type WithNames struct {
	Purchase
	AccountName string  `json:"account_name"`
	StoreName   *string `json:"store_name,omitempty"`
}

// ListRequest filters and orders the purchase listing.
type ListRequest struct {
	Search    string
	Status    *Status
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}
