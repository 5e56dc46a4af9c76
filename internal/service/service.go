// Package service provides business logic for the application: the facade
// composing the record store, session store and change feed into the
// operations the transport layer calls. The facade owns no state of its own.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stockroom/stockroom/internal/metrics"
	"github.com/stockroom/stockroom/internal/model"
)

// Service errors.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownTenant   = errors.New("unknown tenant")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrProductNotFound = errors.New("product not found")
)

// Store is the record store surface the facade depends on.
// Satisfied by *repository.Repository; tests substitute a fake.
type Store interface {
	CreateTenant(ctx context.Context, tenant *model.Tenant) error
	TenantExists(ctx context.Context, id string) (bool, error)

	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	ListCategories(ctx context.Context) ([]*model.Category, error)
	CategoryExists(ctx context.Context, id string) (bool, error)

	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]*model.Product, error)
}

// Sessions is the session store surface the facade depends on.
type Sessions interface {
	Authenticate(ctx context.Context, email, password string) (*model.Session, error)
	Invalidate(ctx context.Context, token string) error
}

// Publisher delivers product mutation events to subscribers.
type Publisher interface {
	Publish(event model.ProductEvent)
}

// Service is the API facade.
type Service struct {
	store    Store
	sessions Sessions
	feed     Publisher
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// New creates the facade.
func New(store Store, sessions Sessions, feed Publisher, logger *slog.Logger, recorder metrics.Recorder) *Service {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Service{
		store:    store,
		sessions: sessions,
		feed:     feed,
		logger:   logger.With("component", "service"),
		metrics:  recorder,
	}
}

// Login authenticates a credential and returns a fresh session.
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, error) {
	return s.sessions.Authenticate(ctx, email, password)
}

// Logout invalidates a session token. Idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token)
}

// ListCategories returns all categories, most recent first.
func (s *Service) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.store.ListCategories(ctx)
}
