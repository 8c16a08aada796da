package accounts

import "time"

// Kind discriminates the counterparty type.
type Kind string

const (
	// KindCustomer marks an account used as a sales counterparty.
	KindCustomer Kind = "customer"
	// KindSupplier marks an account used as a purchasing counterparty.
	KindSupplier Kind = "supplier"
)

// Valid reports whether the kind is a defined value.
func (k Kind) Valid() bool {
	return k == KindCustomer || k == KindSupplier
}

// Account is a counterparty, either customer or supplier.
type Account struct {
	ID        int64     `json:"id"`
	Kind      Kind      `json:"kind"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListRequest filters the account listing.
type ListRequest struct {
	Search string
	Kind   *Kind
	Page   int
	Limit  int
}
