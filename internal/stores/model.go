package stores

import "time"

// Store is a physical sales location referenced by documents and movements.
type Store struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListRequest filters the store listing.
type ListRequest struct {
	Search string
	Page   int
	Limit  int
}
