package quotations

import "time"

// CreateQuotationRequest is the creation payload. The validation layer
// checks shape before the service runs; the service still defends against
// an empty line list.
type CreateQuotationRequest struct {
	AccountID      int64                    `json:"account_id" validate:"required,gt=0"`
	StoreID        *int64                   `json:"store_id,omitempty" validate:"omitempty,gt=0"`
	DiscountAmount float64                  `json:"discount_amount" validate:"gte=0"`
	Notes          string                   `json:"notes" validate:"max=500"`
	ValidUntil     *time.Time               `json:"valid_until,omitempty"`
	Lines          []CreateQuotationLineReq `json:"lines" validate:"required,min=1,dive"`
}

// CreateQuotationLineReq is one requested line.
type CreateQuotationLineReq struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  int64   `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	Discount  float64 `json:"discount" validate:"gte=0,lte=100"`
	Notes     string  `json:"notes" validate:"max=255"`
}

// UpdateStatusRequest carries the target status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
