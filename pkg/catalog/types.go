package catalog

import "time"

// Category is a product grouping created by admins.
type Category struct {
	ID        int64     `json:"category_id"`
	Name      string    `json:"category_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a sellable item. CategoryName is populated on reads by
// joining against the category table; it is ignored on writes.
type Product struct {
	ID           int64     `json:"product_id"`
	Title        string    `json:"product_title"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	CategoryID   int64     `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
