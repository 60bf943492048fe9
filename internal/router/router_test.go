package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"product-api/internal/handler"
	"product-api/internal/model"
	"product-api/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

// memoryRepository is an in-process ProductRepository for exercising the full HTTP chain.
type memoryRepository struct {
	mu       sync.Mutex
	products []model.Product
	pingErr  error
}

func (m *memoryRepository) List(_ context.Context, q model.ProductQuery) ([]model.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []model.Product
	for _, p := range m.products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Name)) {
			continue
		}
		matched = append(matched, p)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := int(q.Skip())
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *memoryRepository) find(id string) int {
	for i, p := range m.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (m *memoryRepository) GetByID(_ context.Context, id string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.find(id); i >= 0 {
		p := m.products[i]
		return &p, nil
	}
	return nil, nil
}

func (m *memoryRepository) Create(_ context.Context, product *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if product.Price < 0 {
		return model.NewValidationError(model.FieldError{Field: "price", Message: "price must be greater than or equal to 0"})
	}
	for _, p := range m.products {
		if p.Name == product.Name {
			return model.NewDuplicateKeyError("name")
		}
	}
	m.products = append(m.products, *product)
	return nil
}

func (m *memoryRepository) Replace(_ context.Context, id string, input model.ProductInput) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(id)
	if i < 0 {
		return nil, nil
	}
	p := &m.products[i]
	p.Name, p.Description, p.Price, p.Category = input.Name, input.Description, input.Price, input.Category
	if input.InStock != nil {
		p.InStock = *input.InStock
	}
	out := *p
	return &out, nil
}

func (m *memoryRepository) UpdatePrice(_ context.Context, id string, price float64) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(id)
	if i < 0 {
		return nil, nil
	}
	m.products[i].Price = price
	out := m.products[i]
	return &out, nil
}

func (m *memoryRepository) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(id)
	if i < 0 {
		return false, nil
	}
	m.products = append(m.products[:i], m.products[i+1:]...)
	return true, nil
}

func (m *memoryRepository) Stats(_ context.Context) ([]model.CategoryStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	groups := map[string]*model.CategoryStats{}
	sums := map[string]float64{}
	for _, p := range m.products {
		g, ok := groups[p.Category]
		if !ok {
			g = &model.CategoryStats{Category: p.Category, MinPrice: p.Price, MaxPrice: p.Price}
			groups[p.Category] = g
		}
		g.ProductCount++
		if p.InStock {
			g.TotalStock++
		}
		sums[p.Category] += p.Price
		if p.Price < g.MinPrice {
			g.MinPrice = p.Price
		}
		if p.Price > g.MaxPrice {
			g.MaxPrice = p.Price
		}
	}

	stats := make([]model.CategoryStats, 0, len(groups))
	for category, g := range groups {
		g.AvgPrice = sums[category] / float64(g.ProductCount)
		stats = append(stats, *g)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Category < stats[j].Category })
	return stats, nil
}

func (m *memoryRepository) Ping(context.Context) error {
	return m.pingErr
}

func newTestServer(t *testing.T, repo *memoryRepository) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	svc := service.NewProductService(repo, nil, logger)
	return New(
		handler.NewProductHandler(svc, logger),
		handler.NewHealthHandler(svc, logger),
		handler.NewErrorTranslator(logger),
		Options{APIKey: testAPIKey, AllowedOrigins: []string{"*"}},
		logger,
	)
}

func do(t *testing.T, h http.Handler, method, target, body string, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authenticated {
		req.Header.Set("X-API-Key", testAPIKey)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createProduct(t *testing.T, h http.Handler, body string) map[string]interface{} {
	t.Helper()

	w := do(t, h, http.MethodPost, "/api/products", body, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created
}

func TestRouter_Health(t *testing.T) {
	h := newTestServer(t, &memoryRepository{})

	w := do(t, h, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Content-Type"))
}

func TestRouter_Welcome(t *testing.T) {
	h := newTestServer(t, &memoryRepository{})

	w := do(t, h, http.MethodGet, "/", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to the Product API! Go to /api/products to see all products.", w.Body.String())
}

func TestRouter_UnknownRoutes(t *testing.T) {
	h := newTestServer(t, &memoryRepository{})

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "Unknown path", method: http.MethodGet, path: "/api/unknown", expectedStatus: http.StatusNotFound},
		{name: "Nested unknown path", method: http.MethodGet, path: "/api/products/abc/reviews", expectedStatus: http.StatusNotFound},
		{name: "Wrong method on collection", method: http.MethodDelete, path: "/api/products", expectedStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, "", true)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusNotFound {
				assert.JSONEq(t, `{"status":"fail","message":"Route not found"}`, w.Body.String())
			}
		})
	}
}

func TestRouter_MutationsRequireAuth(t *testing.T) {
	h := newTestServer(t, &memoryRepository{})
	body := `{"name":"Laptop","description":"Fast","price":1200,"category":"electronics"}`

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{method: http.MethodPost, path: "/api/products", body: body},
		{method: http.MethodPut, path: "/api/products/abc", body: body},
		{method: http.MethodPatch, path: "/api/products/abc", body: `{"price":1}`},
		{method: http.MethodDelete, path: "/api/products/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body, false)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	// Reads stay public.
	w := do(t, h, http.MethodGet, "/api/products", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CreateAndGetRoundTrip(t *testing.T) {
	h := newTestServer(t, &memoryRepository{})

	created := createProduct(t, h, `{"name":"Laptop","description":"High-performance laptop","price":1200,"category":"electronics"}`)
	assert.Equal(t, 1200.0, created["price"])
	assert.Equal(t, true, created["inStock"])
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	w := do(t, h, http.MethodGet, "/api/products/"+id, "", false)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created, fetched)
	assert.Equal(t, "Laptop", fetched["name"])
	assert.Equal(t, "High-performance laptop", fetched["description"])
	assert.Equal(t, "electronics", fetched["category"])
}

func TestRouter_NegativePriceRejected(t *testing.T) {
	repo := &memoryRepository{}
	h := newTestServer(t, repo)

	w := do(t, h, http.MethodPost, "/api/products",
		`{"name":"Laptop","description":"Fast","price":-5,"category":"electronics"}`, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"fail","message":"Validation Error","errors":[
		{"field":"price","message":"Price must be a positive number"}
	]}`, w.Body.String())
	assert.Empty(t, repo.products)
}

func TestRouter_DuplicateName(t *testing.T) {
	h := newTestServer(t, &memoryRepository{})
	body := `{"name":"Laptop","description":"Fast","price":1200,"category":"electronics"}`

	createProduct(t, h, body)
	w := do(t, h, http.MethodPost, "/api/products", body, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"fail","message":"Duplicate key error","errors":["name already exists"]}`, w.Body.String())
}

func TestRouter_MissingProduct(t *testing.T) {
	h := newTestServer(t, &memoryRepository{})
	body := `{"name":"Laptop","description":"Fast","price":1200,"category":"electronics"}`

	tests := []struct {
		method string
		body   string
	}{
		{method: http.MethodGet},
		{method: http.MethodPut, body: body},
		{method: http.MethodPatch, body: `{"price":10}`},
		{method: http.MethodDelete},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := do(t, h, tt.method, "/api/products/does-not-exist", tt.body, true)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"status":"fail","message":"Product not found with ID: does-not-exist"}`, w.Body.String())
		})
	}
}

func TestRouter_Pagination(t *testing.T) {
	h := newTestServer(t, &memoryRepository{})
	createProduct(t, h, `{"name":"Laptop","description":"a","price":1200,"category":"electronics"}`)
	createProduct(t, h, `{"name":"Smartphone","description":"b","price":800,"category":"electronics"}`)
	createProduct(t, h, `{"name":"Coffee Maker","description":"c","price":50,"category":"kitchen","inStock":false}`)

	w := do(t, h, http.MethodGet, "/api/products?page=2&limit=1", "", false)
	require.Equal(t, http.StatusOK, w.Code)

	var page model.ProductPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, "success", page.Status)
	assert.Equal(t, 1, page.Results)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, int64(3), page.TotalProducts)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, int64(3), page.TotalPages)
}

func TestRouter_PageBeyondRange(t *testing.T) {
	h := newTestServer(t, &memoryRepository{})
	createProduct(t, h, `{"name":"Laptop","description":"a","price":1200,"category":"electronics"}`)

	w := do(t, h, http.MethodGet, "/api/products?page=9223372036854775807&limit=10", "", false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page model.ProductPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 0, page.Results)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(1), page.TotalProducts)
	assert.Equal(t, int64(1), page.TotalPages)
}

func TestRouter_UpdateAndDelete(t *testing.T) {
	h := newTestServer(t, &memoryRepository{})
	created := createProduct(t, h, `{"name":"Coffee Maker","description":"Brews","price":50,"category":"kitchen","inStock":false}`)
	id := created["id"].(string)

	w := do(t, h, http.MethodPut, "/api/products/"+id,
		`{"name":"Coffee Maker Pro","description":"Brews faster","price":80,"category":"kitchen"}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	var replaced model.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replaced))
	assert.Equal(t, "Coffee Maker Pro", replaced.Name)
	assert.False(t, replaced.InStock)

	w = do(t, h, http.MethodPatch, "/api/products/"+id, `{"price":75.5}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	var patched model.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
	assert.Equal(t, 75.5, patched.Price)
	assert.Equal(t, "Coffee Maker Pro", patched.Name)

	w = do(t, h, http.MethodPatch, "/api/products/"+id, `{"price":-1}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodDelete, "/api/products/"+id, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Product deleted successfully"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/products/"+id, "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Stats(t *testing.T) {
	h := newTestServer(t, &memoryRepository{})
	createProduct(t, h, `{"name":"Laptop","description":"a","price":1200,"category":"electronics"}`)
	createProduct(t, h, `{"name":"Smartphone","description":"b","price":800,"category":"electronics"}`)
	createProduct(t, h, `{"name":"Coffee Maker","description":"c","price":50,"category":"kitchen","inStock":false}`)

	w := do(t, h, http.MethodGet, "/api/products/stats", "", false)
	require.Equal(t, http.StatusOK, w.Code)

	var resp handler.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Data.Stats, 2)
	assert.Equal(t, "electronics", resp.Data.Stats[0].Category)
	assert.Equal(t, int64(2), resp.Data.Stats[0].ProductCount)
	assert.Equal(t, int64(2), resp.Data.Stats[0].TotalStock)
	assert.Equal(t, 1000.0, resp.Data.Stats[0].AvgPrice)
	assert.Equal(t, "kitchen", resp.Data.Stats[1].Category)
	assert.Equal(t, int64(1), resp.Data.Stats[1].ProductCount)
	assert.Equal(t, int64(0), resp.Data.Stats[1].TotalStock)
}
