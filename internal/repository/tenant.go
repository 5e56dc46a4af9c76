package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/stockroom/stockroom/internal/model"
)

// ErrTenantNotFound indicates the tenant does not exist.
var ErrTenantNotFound = errors.New("tenant not found")

// CreateTenant inserts a new tenant into the database.
func (r *Repository) CreateTenant(ctx context.Context, tenant *model.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, phone, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		tenant.ID,
		tenant.Name,
		tenant.Phone,
		tenant.CreatedAt,
	)
	if err != nil {
		return wrapErr("create tenant", err)
	}

	return nil
}

// GetTenantByID retrieves a tenant by its ID.
func (r *Repository) GetTenantByID(ctx context.Context, id string) (*model.Tenant, error) {
	query := `
		SELECT id, name, phone, created_at
		FROM tenants
		WHERE id = $1
	`

	var tenant model.Tenant
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Phone,
		&tenant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, wrapErr("get tenant by ID", err)
	}

	return &tenant, nil
}

// TenantExists reports whether a tenant with the given ID exists.
func (r *Repository) TenantExists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tenants WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, wrapErr("check tenant existence", err)
	}

	return exists, nil
}
