package quotations

import "time"

// Status enumerates quotation lifecycle states.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
	StatusConverted Status = "converted"
)

// Valid reports whether the status is a defined value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired, StatusConverted:
		return true
	}
	return false
}

// Quotation is a sales document header. Lines are immutable after creation;
// edits require cancel and recreate.
type Quotation struct {
	ID             int64      `json:"id"`
	Number         string     `json:"number"`
	AccountID      int64      `json:"account_id"`
	StoreID        *int64     `json:"store_id,omitempty"`
	TotalAmount    float64    `json:"total_amount"`
	DiscountAmount float64    `json:"discount_amount"`
	GrandTotal     float64    `json:"grand_total"`
	Status         Status     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Lines          []Line     `json:"lines,omitempty"`
}

// Line is a quotation line. Unit price is snapshotted at creation, not a
// live reference to the current product price.
type Line struct {
	ID          int64   `json:"id"`
	QuotationID int64   `json:"quotation_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	Subtotal    float64 `json:"subtotal"`
	Notes       string  `json:"notes,omitempty"`
}

// WithNames is a quotation with resolved counterparty and store names.
type WithNames struct {
	Quotation
	AccountName string  `json:"account_name"`
	StoreName   *string `json:"store_name,omitempty"`
}

// ListRequest filters and orders the quotation listing.
type ListRequest struct {
	Search    string
	Status    *Status
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}
