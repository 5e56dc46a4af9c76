package handler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stockroom/stockroom/internal/model"
	"github.com/stockroom/stockroom/internal/repository"
	"github.com/stockroom/stockroom/internal/service"
)

// memStore is an in-memory service.Store for handler tests.
type memStore struct {
	tenants    map[string]*model.Tenant
	users      map[string]*model.User
	categories []*model.Category
	products   map[string]*model.Product

	// storeErr, when set, fails every store call with that error.
	storeErr error
}

func newMemStore() *memStore {
	return &memStore{
		tenants:  make(map[string]*model.Tenant),
		users:    make(map[string]*model.User),
		products: make(map[string]*model.Product),
	}
}

func (m *memStore) CreateTenant(_ context.Context, tenant *model.Tenant) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	m.tenants[tenant.ID] = tenant
	return nil
}

func (m *memStore) TenantExists(_ context.Context, id string) (bool, error) {
	if m.storeErr != nil {
		return false, m.storeErr
	}
	_, ok := m.tenants[id]
	return ok, nil
}

func (m *memStore) CreateUser(_ context.Context, user *model.User) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrEmailExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	user, ok := m.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *memStore) ListCategories(_ context.Context) ([]*model.Category, error) {
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	return m.categories, nil
}

func (m *memStore) CategoryExists(_ context.Context, id string) (bool, error) {
	if m.storeErr != nil {
		return false, m.storeErr
	}
	for _, category := range m.categories {
		if category.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateProduct(_ context.Context, product *model.Product) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	m.products[product.ID] = product
	return nil
}

func (m *memStore) GetProductByID(_ context.Context, id string) (*model.Product, error) {
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *memStore) UpdateProduct(_ context.Context, product *model.Product) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	existing, ok := m.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	product.CreatedAt = existing.CreatedAt
	m.products[product.ID] = product
	return nil
}

func (m *memStore) DeleteProduct(_ context.Context, id string) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memStore) ListProducts(_ context.Context) ([]*model.Product, error) {
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	products := make([]*model.Product, 0, len(m.products))
	for _, product := range m.products {
		products = append(products, product)
	}
	return products, nil
}

// memSessions is a stub service.Sessions for handler tests.
type memSessions struct {
	session     *model.Session
	err         error
	invalidated []string
}

func (m *memSessions) Authenticate(_ context.Context, _, _ string) (*model.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *memSessions) Invalidate(_ context.Context, token string) error {
	if m.err != nil {
		return m.err
	}
	m.invalidated = append(m.invalidated, token)
	return nil
}

// nopPublisher discards events; feed behavior has its own tests.
type nopPublisher struct{}

func (nopPublisher) Publish(model.ProductEvent) {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(store *memStore, sessions *memSessions) *service.Service {
	return service.New(store, sessions, nopPublisher{}, testLogger(), nil)
}

func testSession() *model.Session {
	now := time.Now().UTC()
	return &model.Session{
		Token:     "st_01HV9K7W3MZXQ4T8R2B6DYFGAC",
		UserID:    "u1",
		TenantID:  "t1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}
