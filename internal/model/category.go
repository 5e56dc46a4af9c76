package model

import "time"

// Category is a fixed classification label attached to products.
// The catalog is read-only at runtime; entries ship with the schema.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
