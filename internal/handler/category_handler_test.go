package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/service"
)

// MockCategoryService mocks the CategoryService interface
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context, search string, page dto.PageQuery) ([]models.Category, int64, error) {
	args := m.Called(ctx, search, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryService) Create(ctx context.Context, in dto.CreateCategoryDTO) (*models.Category, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// fakeAuth injects claims the way AuthMiddleware would after validating a
// real token.
func fakeAuth(claims *service.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("claims", claims)
		c.Next()
	}
}

func adminClaims() *service.Claims {
	return &service.Claims{UserID: "admin-1", Username: "admin", Role: models.RoleAdmin}
}

func userClaims() *service.Claims {
	return &service.Claims{UserID: "user-1", Username: "regular", Role: models.RoleUser}
}

func TestCategoryList(t *testing.T) {
	mockSvc := new(MockCategoryService)
	handler := NewCategoryHandler(mockSvc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/categories"), fakeAuth(userClaims()))

	categories := []models.Category{
		{ID: 1, NameSlug: models.NameSlug{Name: "Movies", Slug: "movies"}},
		{ID: 2, NameSlug: models.NameSlug{Name: "Books", Slug: "books"}},
	}
	mockSvc.On("List", mock.Anything, "", dto.PageQuery{Page: 1, PageSize: 20}).
		Return(categories, int64(2), nil)

	req, _ := http.NewRequest("GET", "/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.PaginatedResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(2), response.Count)
	assert.Equal(t, 1, response.Page)
}

func TestCategoryCreate_SlugTaken(t *testing.T) {
	mockSvc := new(MockCategoryService)
	handler := NewCategoryHandler(mockSvc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/categories"), fakeAuth(adminClaims()))

	in := dto.CreateCategoryDTO{Name: "Movies", Slug: "movies"}
	mockSvc.On("Create", mock.Anything, in).Return(nil, service.ErrSlugTaken)

	w := postJSON(router, "/categories", in)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response, "slug")
}

func TestCategoryCreate_NonAdminForbidden(t *testing.T) {
	mockSvc := new(MockCategoryService)
	handler := NewCategoryHandler(mockSvc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/categories"), fakeAuth(userClaims()))

	w := postJSON(router, "/categories", dto.CreateCategoryDTO{Name: "Movies", Slug: "movies"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryDelete_Success(t *testing.T) {
	mockSvc := new(MockCategoryService)
	handler := NewCategoryHandler(mockSvc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/categories"), fakeAuth(adminClaims()))

	mockSvc.On("DeleteBySlug", mock.Anything, "movies").Return(nil)

	req, _ := http.NewRequest("DELETE", "/categories/movies", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCategoryDelete_NotFound(t *testing.T) {
	mockSvc := new(MockCategoryService)
	handler := NewCategoryHandler(mockSvc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/categories"), fakeAuth(adminClaims()))

	mockSvc.On("DeleteBySlug", mock.Anything, "ghost").Return(service.ErrCategoryNotFound)

	req, _ := http.NewRequest("DELETE", "/categories/ghost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
