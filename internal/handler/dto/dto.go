// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/stockroom/stockroom/internal/model"
)

// RegisterRequest represents the request body for tenant + owner signup.
type RegisterRequest struct {
	CompanyName     string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// LoginRequest represents the request body for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse carries the opaque session token back to the caller.
// How the caller stores the token (header, cookie) is its own concern.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse represents a user in API responses. Never carries the
// credential.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	TenantID  string    `json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductRequest represents the full field set for product create and
// update. Numeric fields are integers; fractional JSON input fails decoding
// rather than being truncated.
type ProductRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	UnitPrice    int64  `json:"unit_price"`
	ReorderLevel int64  `json:"reorder_level"`
	LeadTime     int64  `json:"lead_time"`
	CategoryID   string `json:"category_id"`
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
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

// ProductEventPayload is the wire form of a change feed event.
// Product is set for created/updated, ProductID for deleted.
type ProductEventPayload struct {
	Kind      string           `json:"kind"`
	Product   *ProductResponse `json:"product,omitempty"`
	ProductID string           `json:"product_id,omitempty"`
}

// ErrorResponse represents an API error. FailedStep and TenantID are set
// only for registration failures, so the caller can tell a fully failed
// signup from one that left a tenant without an owner.
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	FailedStep string `json:"failed_step,omitempty"`
	TenantID   string `json:"tenant_id,omitempty"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		TenantID:  user.TenantID,
		CreatedAt: user.CreatedAt,
	}
}

// ToCategoryResponses converts Category models to DTOs, preserving order.
func ToCategoryResponses(categories []*model.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = CategoryResponse{
			ID:        category.ID,
			Name:      category.Name,
			CreatedAt: category.CreatedAt,
		}
	}
	return responses
}

// ToProductResponse converts a Product model to ProductResponse DTO.
func ToProductResponse(product *model.Product) *ProductResponse {
	return &ProductResponse{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		UnitPrice:    product.UnitPrice,
		ReorderLevel: product.ReorderLevel,
		LeadTime:     product.LeadTime,
		CategoryID:   product.CategoryID,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

// ToProductResponses converts Product models to DTOs, preserving order.
func ToProductResponses(products []*model.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i, product := range products {
		responses[i] = *ToProductResponse(product)
	}
	return responses
}

// ToProductEventPayload converts a feed event to its wire form.
func ToProductEventPayload(event model.ProductEvent) ProductEventPayload {
	payload := ProductEventPayload{Kind: string(event.Kind())}
	switch e := event.(type) {
	case model.ProductCreated:
		payload.Product = ToProductResponse(e.Product)
	case model.ProductUpdated:
		payload.Product = ToProductResponse(e.Product)
	case model.ProductDeleted:
		payload.ProductID = e.ProductID
	}
	return payload
}
