package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/stockroom/stockroom/internal/model"
)

// ErrProductNotFound indicates the product does not exist.
var ErrProductNotFound = errors.New("product not found")

// CreateProduct inserts a new product into the database.
// A dangling category reference surfaces as ErrCategoryNotFound; the schema
// enforces the constraint even if a concurrent check raced.
func (r *Repository) CreateProduct(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (id, name, description, unit_price, reorder_level, lead_time, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.UnitPrice,
		product.ReorderLevel,
		product.LeadTime,
		product.CategoryID,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCategoryNotFound
		}
		return wrapErr("create product", err)
	}

	return nil
}

// GetProductByID retrieves a product by its ID.
func (r *Repository) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT id, name, description, unit_price, reorder_level, lead_time, category_id, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var product model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.UnitPrice,
		&product.ReorderLevel,
		&product.LeadTime,
		&product.CategoryID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, wrapErr("get product by ID", err)
	}

	return &product, nil
}

// UpdateProduct overwrites all mutable fields of a product (full replace).
// The single UPDATE statement makes each concurrent write internally atomic;
// the last write to reach the store wins. Fills CreatedAt on the passed
// product from the stored row.
func (r *Repository) UpdateProduct(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, unit_price = $4, reorder_level = $5, lead_time = $6, category_id = $7, updated_at = $8
		WHERE id = $1
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.UnitPrice,
		product.ReorderLevel,
		product.LeadTime,
		product.CategoryID,
		product.UpdatedAt,
	).Scan(&product.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		if isForeignKeyViolation(err) {
			return ErrCategoryNotFound
		}
		return wrapErr("update product", err)
	}

	return nil
}

// DeleteProduct removes a product by its ID.
func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return wrapErr("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// ListProducts returns the full current catalog. No pagination: the catalog
// is operator-scale, not consumer-scale.
func (r *Repository) ListProducts(ctx context.Context) ([]*model.Product, error) {
	query := `
		SELECT id, name, description, unit_price, reorder_level, lead_time, category_id, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("list products", err)
	}
	defer rows.Close()

	products := make([]*model.Product, 0)
	for rows.Next() {
		var product model.Product
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.UnitPrice,
			&product.ReorderLevel,
			&product.LeadTime,
			&product.CategoryID,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, wrapErr("scan product", err)
		}
		products = append(products, &product)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("read products", err)
	}

	return products, nil
}
