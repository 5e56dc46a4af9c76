package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stockroom/stockroom/internal/handler/dto"
	"github.com/stockroom/stockroom/internal/model"
	"github.com/stockroom/stockroom/internal/repository"
)

// newCatalogRouter mounts the catalog routes so URL parameters resolve.
func newCatalogRouter(store *memStore) *chi.Mux {
	h := NewCatalogHandler(newTestService(store, &memSessions{}), testLogger())

	r := chi.NewRouter()
	r.Get("/categories", h.ListCategories)
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
	return r
}

func storeWithCategories() *memStore {
	store := newMemStore()
	now := time.Now().UTC()
	store.categories = []*model.Category{
		{ID: "cat-component", Name: "Components", CreatedAt: now},
		{ID: "cat-general", Name: "General", CreatedAt: now.Add(-time.Hour)},
	}
	return store
}

func productBody() string {
	return `{
		"name": "Hex Bolt M8",
		"description": "Stainless, 40mm",
		"unit_price": 250,
		"reorder_level": 100,
		"lead_time": 7,
		"category_id": "cat-component"
	}`
}

func createProduct(t *testing.T, r *chi.Mux) dto.ProductResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(productBody()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp dto.ProductResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return resp
}

func TestListCategoriesHandler(t *testing.T) {
	r := newCatalogRouter(storeWithCategories())

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp []dto.CategoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("len(categories) = %d, want 2", len(resp))
	}
	// Store order is preserved by the transport layer.
	if resp[0].ID != "cat-component" || resp[1].ID != "cat-general" {
		t.Errorf("category order = [%s %s], want store order", resp[0].ID, resp[1].ID)
	}
}

func TestCreateProductHandler(t *testing.T) {
	r := newCatalogRouter(storeWithCategories())

	product := createProduct(t, r)
	if product.ID == "" {
		t.Error("expected product id to be set")
	}
	if product.Name != "Hex Bolt M8" || product.UnitPrice != 250 {
		t.Errorf("product = %+v", product)
	}
}

func TestCreateProductHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid json",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_JSON",
		},
		{
			name:       "fractional unit price",
			body:       `{"name": "Bolt", "unit_price": 2.5, "reorder_level": 10, "lead_time": 7, "category_id": "cat-component"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_JSON",
		},
		{
			name:       "zero unit price",
			body:       `{"name": "Bolt", "unit_price": 0, "reorder_level": 10, "lead_time": 7, "category_id": "cat-component"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "negative reorder level",
			body:       `{"name": "Bolt", "unit_price": 100, "reorder_level": -1, "lead_time": 7, "category_id": "cat-component"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "missing name",
			body:       `{"unit_price": 100, "reorder_level": 10, "lead_time": 7, "category_id": "cat-component"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "unknown category",
			body:       `{"name": "Bolt", "unit_price": 100, "reorder_level": 10, "lead_time": 7, "category_id": "cat-missing"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "UNKNOWN_CATEGORY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCatalogRouter(storeWithCategories())

			req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var resp dto.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestCatalogHandlersStoreUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "list categories", method: http.MethodGet, path: "/categories"},
		{name: "create product", method: http.MethodPost, path: "/products", body: productBody()},
		{name: "get product", method: http.MethodGet, path: "/products/p1"},
		{name: "list products", method: http.MethodGet, path: "/products/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeWithCategories()
			store.storeErr = fmt.Errorf("%w: dial tcp: connection refused", repository.ErrStoreUnavailable)
			r := newCatalogRouter(store)

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusServiceUnavailable {
				t.Errorf("status = %d, want %d; body: %s", rec.Code, http.StatusServiceUnavailable, rec.Body.String())
			}

			var resp dto.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp.Code != "STORE_UNAVAILABLE" {
				t.Errorf("code = %q, want STORE_UNAVAILABLE", resp.Code)
			}
		})
	}
}

func TestGetProductHandler(t *testing.T) {
	r := newCatalogRouter(storeWithCategories())
	product := createProduct(t, r)

	req := httptest.NewRequest(http.MethodGet, "/products/"+product.ID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp dto.ProductResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.ID != product.ID {
		t.Errorf("id = %q, want %q", resp.ID, product.ID)
	}
}

func TestGetProductHandlerNotFound(t *testing.T) {
	r := newCatalogRouter(storeWithCategories())

	req := httptest.NewRequest(http.MethodGet, "/products/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Code != "PRODUCT_NOT_FOUND" {
		t.Errorf("code = %q, want PRODUCT_NOT_FOUND", resp.Code)
	}
}

func TestUpdateProductHandler(t *testing.T) {
	r := newCatalogRouter(storeWithCategories())
	product := createProduct(t, r)

	body := `{
		"name": "Hex Bolt M10",
		"description": "",
		"unit_price": 310,
		"reorder_level": 50,
		"lead_time": 5,
		"category_id": "cat-general"
	}`
	req := httptest.NewRequest(http.MethodPut, "/products/"+product.ID, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp dto.ProductResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	// Full replace: every field reflects the request, including the emptied
	// description and the new category.
	if resp.Name != "Hex Bolt M10" || resp.UnitPrice != 310 || resp.ReorderLevel != 50 {
		t.Errorf("product = %+v, want full-replace semantics", resp)
	}
	if resp.Description != "" {
		t.Errorf("description = %q, want emptied", resp.Description)
	}
	if resp.CategoryID != "cat-general" {
		t.Errorf("category_id = %q, want %q", resp.CategoryID, "cat-general")
	}
}

func TestUpdateProductHandlerNotFound(t *testing.T) {
	r := newCatalogRouter(storeWithCategories())

	req := httptest.NewRequest(http.MethodPut, "/products/missing", strings.NewReader(productBody()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDeleteProductHandler(t *testing.T) {
	store := storeWithCategories()
	r := newCatalogRouter(store)
	product := createProduct(t, r)

	req := httptest.NewRequest(http.MethodDelete, "/products/"+product.ID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if _, ok := store.products[product.ID]; ok {
		t.Error("expected product to be removed")
	}

	// Second delete reports not found.
	req = httptest.NewRequest(http.MethodDelete, "/products/"+product.ID, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestListProductsHandler(t *testing.T) {
	r := newCatalogRouter(storeWithCategories())
	createProduct(t, r)
	createProduct(t, r)

	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp []dto.ProductResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("len(products) = %d, want 2", len(resp))
	}
}
