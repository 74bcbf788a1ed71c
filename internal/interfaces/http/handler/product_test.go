package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcatalog "github.com/kartikpareekak-cloud/shopbackend/internal/application/catalog"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/catalog"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
)

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if p := args.Get(0); p != nil {
		return p.([]catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepository) FindLowStock(ctx context.Context, threshold, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, threshold, limit)
	if p := args.Get(0); p != nil {
		return p.([]catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newProductTestRouter(repo *mockProductRepository) *gin.Engine {
	service := appcatalog.NewProductService(repo, zap.NewNop())
	h := NewProductHandler(service)

	router := gin.New()
	router.GET("/products", h.List)
	router.GET("/products/:id", h.Get)
	router.POST("/products", h.Create)
	router.DELETE("/products/:id", h.Delete)
	return router
}

func TestProductHandler_Create_Success(t *testing.T) {
	repo := new(mockProductRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
	router := newProductTestRouter(repo)

	body := []byte(`{"name":"Brake Pad","category":"Brakes","selling_price":100,"cost_price":60,"stock":5}`)
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	repo.AssertExpectations(t)
}

func TestProductHandler_Create_MissingPrice(t *testing.T) {
	router := newProductTestRouter(new(mockProductRepository))

	body := []byte(`{"name":"Brake Pad"}`)
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductHandler_Get_Success(t *testing.T) {
	product, err := catalog.NewProduct("Brake Pad", "", "Brakes", decimal.NewFromInt(100), decimal.NewFromInt(60), 5)
	require.NoError(t, err)

	repo := new(mockProductRepository)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	router := newProductTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/products/"+product.ID.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeResponse(t, rec).Success)
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	router := newProductTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/products/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandler_Get_InvalidID(t *testing.T) {
	router := newProductTestRouter(new(mockProductRepository))

	req := httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductHandler_List_Success(t *testing.T) {
	p1, err := catalog.NewProduct("Brake Pad", "", "Brakes", decimal.NewFromInt(100), decimal.NewFromInt(60), 5)
	require.NoError(t, err)
	p2, err := catalog.NewProduct("Mirror", "", "Accessories", decimal.NewFromInt(250), decimal.NewFromInt(150), 2)
	require.NoError(t, err)

	repo := new(mockProductRepository)
	repo.On("FindAll", mock.Anything, mock.Anything).Return([]catalog.Product{*p1, *p2}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(2), nil)
	router := newProductTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/products?page=1&page_size=10", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
}

func TestProductHandler_Delete_Success(t *testing.T) {
	product, err := catalog.NewProduct("Brake Pad", "", "Brakes", decimal.NewFromInt(100), decimal.NewFromInt(60), 5)
	require.NoError(t, err)

	repo := new(mockProductRepository)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("Delete", mock.Anything, product.ID).Return(nil)
	router := newProductTestRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/products/"+product.ID.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}
