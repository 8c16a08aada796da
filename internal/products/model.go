package products

import "time"

// Product is a catalog entry. Stock is the single live inventory counter;
// it is mutated only by the inventory ledger and must never go negative.
type Product struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit,omitempty"`
	Price     float64   `json:"price"`
	Stock     int64     `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListRequest filters the product listing.
type ListRequest struct {
	Search string
	Page   int
	Limit  int
}
