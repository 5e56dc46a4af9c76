package model

import "time"

// Product represents a catalog item. UnitPrice is in the smallest currency
// unit; ReorderLevel is the stock threshold that triggers replenishment and
// LeadTime the days required to restock. All three are strictly positive.
// CategoryID must reference an existing Category at every write.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	UnitPrice    int64     `json:"unit_price"`
	ReorderLevel int64     `json:"reorder_level"`
	LeadTime     int64     `json:"lead_time"`
	CategoryID   string    `json:"category_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
