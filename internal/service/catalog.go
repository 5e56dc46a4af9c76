package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stockroom/stockroom/internal/model"
	"github.com/stockroom/stockroom/internal/repository"
)

// ProductInput defines the full field set for product create and update.
// Update is full-replace: every field overwrites the stored value.
type ProductInput struct {
	Name         string
	Description  string
	UnitPrice    int64
	ReorderLevel int64
	LeadTime     int64
	CategoryID   string
}

// CreateProduct validates the input, checks the category reference, persists
// the product and publishes a Created event. Validation failures are
// reported before any store interaction.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:           model.NewID(),
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		UnitPrice:    input.UnitPrice,
		ReorderLevel: input.ReorderLevel,
		LeadTime:     input.LeadTime,
		CategoryID:   input.CategoryID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		// The existence check can race with nothing here (categories are
		// read-only), but the schema constraint is still the authority.
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrUnknownCategory
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.metrics.IncProductWrite("created")
	s.feed.Publish(model.ProductCreated{Product: product})

	s.logger.Info("product created",
		"product_id", product.ID,
		"category_id", product.CategoryID,
	)

	return product, nil
}

// UpdateProduct overwrites all fields of an existing product (full replace)
// and publishes an Updated event. Concurrent updates are last-writer-wins;
// no conflict signal is raised.
func (s *Service) UpdateProduct(ctx context.Context, id string, input ProductInput) (*model.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrValidation)
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:           id,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		UnitPrice:    input.UnitPrice,
		ReorderLevel: input.ReorderLevel,
		LeadTime:     input.LeadTime,
		CategoryID:   input.CategoryID,
		UpdatedAt:    time.Now().UTC(),
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return nil, ErrProductNotFound
		case errors.Is(err, repository.ErrCategoryNotFound):
			return nil, ErrUnknownCategory
		default:
			return nil, fmt.Errorf("update product: %w", err)
		}
	}

	s.metrics.IncProductWrite("updated")
	s.feed.Publish(model.ProductUpdated{Product: product})

	s.logger.Info("product updated", "product_id", product.ID)

	return product, nil
}

// GetProduct retrieves a product by ID.
func (s *Service) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// ListProducts returns the full current catalog.
func (s *Service) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return s.store.ListProducts(ctx)
}

// DeleteProduct removes a product and publishes a Deleted event.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: product id is required", ErrValidation)
	}

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}

	s.metrics.IncProductWrite("deleted")
	s.feed.Publish(model.ProductDeleted{ProductID: id})

	s.logger.Info("product deleted", "product_id", id)

	return nil
}

// validateProductInput rejects malformed input before any store call.
// Zero or negative numeric values are rejected, never clamped.
func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.UnitPrice <= 0 {
		return fmt.Errorf("%w: unit_price must be a positive integer", ErrValidation)
	}
	if input.ReorderLevel <= 0 {
		return fmt.Errorf("%w: reorder_level must be a positive integer", ErrValidation)
	}
	if input.LeadTime <= 0 {
		return fmt.Errorf("%w: lead_time must be a positive integer", ErrValidation)
	}
	if input.CategoryID == "" {
		return fmt.Errorf("%w: category_id is required", ErrValidation)
	}
	return nil
}

func (s *Service) checkCategory(ctx context.Context, categoryID string) error {
	exists, err := s.store.CategoryExists(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return ErrUnknownCategory
	}
	return nil
}
