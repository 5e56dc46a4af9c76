package repository

import (
	"context"
	"errors"

	"github.com/stockroom/stockroom/internal/model"
)

// ErrCategoryNotFound indicates the referenced category does not exist.
var ErrCategoryNotFound = errors.New("category not found")

// ListCategories returns all categories, most recently created first.
// The result is fully materialized; an empty slice is a valid result.
func (r *Repository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	query := `
		SELECT id, name, created_at
		FROM categories
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	defer rows.Close()

	categories := make([]*model.Category, 0)
	for rows.Next() {
		var category model.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.CreatedAt); err != nil {
			return nil, wrapErr("scan category", err)
		}
		categories = append(categories, &category)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("read categories", err)
	}

	return categories, nil
}

// CategoryExists reports whether a category with the given ID exists.
func (r *Repository) CategoryExists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, wrapErr("check category existence", err)
	}

	return exists, nil
}
