package model

import "time"

// InventoryItem is a pair of shoes (or a batch of identical pairs) held for resale.
// Price is the unit purchase price.
type InventoryItem struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ProductName string    `json:"product_name"`
	Brand       string    `json:"brand"`
	Size        float64   `json:"size"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	ImageKey    string    `json:"-"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ShoeLogEntry records a purchase at the time it entered the inventory.
// Entries are append-only and are not affected by later sales.
type ShoeLogEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ProductName string    `json:"product_name"`
	Brand       string    `json:"brand"`
	Size        float64   `json:"size"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	DateAdded   time.Time `json:"date_added"`
}
