package inventory

import "time"

// Direction enumerates stock movement directions.
type Direction string

const (
	// DirectionIn represents an inbound movement.
	DirectionIn Direction = "in"
	// DirectionOut represents an outbound movement.
	DirectionOut Direction = "out"
)

// Valid reports whether the direction is a defined value.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Movement is an immutable audit entry recording one inventory change.
// Movements are never updated or deleted.
type Movement struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Direction Direction `json:"direction"`
	Quantity  int64     `json:"quantity"`
	Note      string    `json:"note"`
	AccountID *int64    `json:"account_id,omitempty"`
	StoreID   *int64    `json:"store_id,omitempty"`
	RefID     string    `json:"ref_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MovementWithProduct joins the product display name for listings.
type MovementWithProduct struct {
	Movement
	ProductName string `json:"product_name"`
}

// MovementInput describes a signed quantity delta to apply.
type MovementInput struct {
	ProductID int64
	Direction Direction
	Quantity  int64
	Note      string
	AccountID *int64
	StoreID   *int64
	RefID     string
}

// StockRequirement is one line of an availability pre-check.
type StockRequirement struct {
	ProductID int64
	Quantity  int64
}

// ListMovementsRequest filters the movement listing.
type ListMovementsRequest struct {
	ProductID *int64
	Direction *Direction
	Page      int
	Limit     int
}
