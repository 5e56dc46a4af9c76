package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stockroom/stockroom/internal/model"
	"github.com/stockroom/stockroom/internal/repository"
)

// fakeStore is an in-memory Store for facade tests.
type fakeStore struct {
	tenants    map[string]*model.Tenant
	users      map[string]*model.User // keyed by email
	categories map[string]*model.Category
	products   map[string]*model.Product

	productWrites int

	failCreateTenant error
	failCreateUser   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tenants:    make(map[string]*model.Tenant),
		users:      make(map[string]*model.User),
		categories: make(map[string]*model.Category),
		products:   make(map[string]*model.Product),
	}
}

func (f *fakeStore) CreateTenant(_ context.Context, tenant *model.Tenant) error {
	if f.failCreateTenant != nil {
		return f.failCreateTenant
	}
	f.tenants[tenant.ID] = tenant
	return nil
}

func (f *fakeStore) TenantExists(_ context.Context, id string) (bool, error) {
	_, ok := f.tenants[id]
	return ok, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *model.User) error {
	if f.failCreateUser != nil {
		return f.failCreateUser
	}
	if _, ok := f.users[user.Email]; ok {
		return repository.ErrEmailExists
	}
	if _, ok := f.tenants[user.TenantID]; !ok {
		return repository.ErrTenantNotFound
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStore) ListCategories(_ context.Context) ([]*model.Category, error) {
	categories := make([]*model.Category, 0, len(f.categories))
	for _, category := range f.categories {
		categories = append(categories, category)
	}
	return categories, nil
}

func (f *fakeStore) CategoryExists(_ context.Context, id string) (bool, error) {
	_, ok := f.categories[id]
	return ok, nil
}

func (f *fakeStore) CreateProduct(_ context.Context, product *model.Product) error {
	f.productWrites++
	if _, ok := f.categories[product.CategoryID]; !ok {
		return repository.ErrCategoryNotFound
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeStore) GetProductByID(_ context.Context, id string) (*model.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, product *model.Product) error {
	f.productWrites++
	existing, ok := f.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	if _, ok := f.categories[product.CategoryID]; !ok {
		return repository.ErrCategoryNotFound
	}
	product.CreatedAt = existing.CreatedAt
	f.products[product.ID] = product
	return nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id string) error {
	f.productWrites++
	if _, ok := f.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) ListProducts(_ context.Context) ([]*model.Product, error) {
	products := make([]*model.Product, 0, len(f.products))
	for _, product := range f.products {
		products = append(products, product)
	}
	return products, nil
}

func (f *fakeStore) addCategory(id, name string) {
	f.categories[id] = &model.Category{ID: id, Name: name}
}

// fakePublisher records published events.
type fakePublisher struct {
	events []model.ProductEvent
}

func (f *fakePublisher) Publish(event model.ProductEvent) {
	f.events = append(f.events, event)
}

// fakeSessions is a stub Sessions implementation.
type fakeSessions struct {
	session     *model.Session
	err         error
	invalidated []string
}

func (f *fakeSessions) Authenticate(_ context.Context, _, _ string) (*model.Session, error) {
	return f.session, f.err
}

func (f *fakeSessions) Invalidate(_ context.Context, token string) error {
	f.invalidated = append(f.invalidated, token)
	return f.err
}

func newTestService(store *fakeStore, publisher *fakePublisher) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, &fakeSessions{}, publisher, logger, nil)
}
