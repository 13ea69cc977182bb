package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/service"
)

// MockUserService mocks the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, search string, page dto.PageQuery) ([]models.User, int64, error) {
	args := m.Called(ctx, search, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) Create(ctx context.Context, in dto.CreateUserDTO) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, username string, in dto.UpdateUserDTO) (*models.User, error) {
	args := m.Called(ctx, username, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, in dto.UpdateProfileDTO) (*models.User, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestUserList_NonAdminForbidden(t *testing.T) {
	mockSvc := new(MockUserService)
	handler := NewUserHandler(mockSvc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/users"), fakeAuth(userClaims()))

	req, _ := http.NewRequest("GET", "/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserList_SuperuserAllowed(t *testing.T) {
	mockSvc := new(MockUserService)
	handler := NewUserHandler(mockSvc)
	router := setupRouter()

	superuser := &service.Claims{UserID: "su-1", Username: "root", Role: models.RoleUser, Superuser: true}
	handler.RegisterRoutes(router.Group("/users"), fakeAuth(superuser))

	mockSvc.On("List", mock.Anything, "", dto.PageQuery{Page: 1, PageSize: 20}).
		Return([]models.User{{Username: "alice"}}, int64(1), nil)

	req, _ := http.NewRequest("GET", "/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestUserGet_NotFound(t *testing.T) {
	mockSvc := new(MockUserService)
	handler := NewUserHandler(mockSvc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/users"), fakeAuth(adminClaims()))

	mockSvc.On("GetByUsername", mock.Anything, "ghost").Return(nil, service.ErrUserNotFound)

	req, _ := http.NewRequest("GET", "/users/ghost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserDelete_Success(t *testing.T) {
	mockSvc := new(MockUserService)
	handler := NewUserHandler(mockSvc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/users"), fakeAuth(adminClaims()))

	mockSvc.On("Delete", mock.Anything, "olduser").Return(nil)

	req, _ := http.NewRequest("DELETE", "/users/olduser", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMe_ReturnsOwnProfile(t *testing.T) {
	mockSvc := new(MockUserService)
	handler := NewUserHandler(mockSvc)
	router := setupRouter()
	claims := userClaims()
	handler.RegisterRoutes(router.Group("/users"), fakeAuth(claims))

	user := &models.User{ID: claims.UserID, Username: "regular", Email: "reg@example.com", Role: models.RoleUser}
	mockSvc.On("GetByID", mock.Anything, claims.UserID).Return(user, nil)

	req, _ := http.NewRequest("GET", "/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.UserResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "regular", response.Username)
	assert.Equal(t, models.RoleUser, response.Role)
}

func TestUpdateMe_RoleInPayloadIgnored(t *testing.T) {
	mockSvc := new(MockUserService)
	handler := NewUserHandler(mockSvc)
	router := setupRouter()
	claims := userClaims()
	handler.RegisterRoutes(router.Group("/users"), fakeAuth(claims))

	bio := "new bio"
	expected := dto.UpdateProfileDTO{Bio: &bio}
	user := &models.User{ID: claims.UserID, Username: "regular", Bio: "new bio", Role: models.RoleUser}
	mockSvc.On("UpdateProfile", mock.Anything, claims.UserID, expected).Return(user, nil)

	// A role in the payload is not part of the bound DTO and never reaches
	// the service.
	w := patchJSON(router, "/users/me", map[string]string{"bio": "new bio", "role": "admin"})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.UserResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, models.RoleUser, response.Role)
	mockSvc.AssertExpectations(t)
}
