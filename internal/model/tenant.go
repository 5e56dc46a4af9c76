// Package model defines domain entities for the application.
package model

import "time"

// Tenant represents a company account, the unit of multi-tenant isolation.
// Tenants are created once during registration and are immutable afterwards.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
