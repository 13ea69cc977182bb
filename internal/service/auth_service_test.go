package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reviewhub/internal/config"
	"reviewhub/internal/models"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, search string, limit, offset int) ([]models.User, int64, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// MockMailer mocks the Mailer interface and remembers the last code it saw
type MockMailer struct {
	mock.Mock
	lastCode string
}

func (m *MockMailer) SendConfirmationCode(ctx context.Context, email, username, code string) error {
	m.lastCode = code
	args := m.Called(ctx, email, username, code)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret-that-is-long-enough!",
		AccessTokenTTL: 24 * time.Hour,
	}
}

func TestValidateNewUsername(t *testing.T) {
	assert.ErrorIs(t, ValidateNewUsername("me"), ErrReservedUsername)
	assert.ErrorIs(t, ValidateNewUsername("ME"), ErrReservedUsername)
	assert.ErrorIs(t, ValidateNewUsername("Me"), ErrReservedUsername)
	assert.ErrorIs(t, ValidateNewUsername("user name"), ErrInvalidUsername)
	assert.ErrorIs(t, ValidateNewUsername("user!"), ErrInvalidUsername)
	assert.NoError(t, ValidateNewUsername("mel"))
	assert.NoError(t, ValidateNewUsername("some.user@example+tag-1"))
}

func TestSignup_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	svc := NewAuthService(mockUserRepo, mockMailer, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "newuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockMailer.On("SendConfirmationCode", mock.Anything, "new@example.com", "newuser", mock.AnythingOfType("string")).Return(nil)

	user, err := svc.Signup(context.Background(), "newuser", "new@example.com")

	assert.NoError(t, err)
	assert.Equal(t, "newuser", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)

	// The stored hash must verify the code that went out by email.
	assert.NotEmpty(t, user.ConfirmationHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.ConfirmationHash), []byte(mockMailer.lastCode)))

	mockUserRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}

func TestSignup_ReservedUsername(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	svc := NewAuthService(mockUserRepo, mockMailer, testConfig())

	_, err := svc.Signup(context.Background(), "me", "me@example.com")

	assert.ErrorIs(t, err, ErrReservedUsername)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignup_UsernameTaken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	svc := NewAuthService(mockUserRepo, mockMailer, testConfig())

	existing := &models.User{Username: "taken"}
	mockUserRepo.On("FindByUsername", mock.Anything, "taken").Return(existing, nil)

	_, err := svc.Signup(context.Background(), "taken", "new@example.com")

	assert.ErrorIs(t, err, ErrUsernameTaken)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignup_EmailTaken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	svc := NewAuthService(mockUserRepo, mockMailer, testConfig())

	existing := &models.User{Username: "other", Email: "used@example.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "newuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "used@example.com").Return(existing, nil)

	_, err := svc.Signup(context.Background(), "newuser", "used@example.com")

	assert.ErrorIs(t, err, ErrEmailTaken)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIssueToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	svc := NewAuthService(mockUserRepo, mockMailer, testConfig())

	code := "super-secret-code"
	hash, _ := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	user := &models.User{
		ID:               "user-123",
		Username:         "testuser",
		Role:             models.RoleUser,
		ConfirmationHash: string(hash),
	}

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)
	mockUserRepo.On("Update", mock.Anything, user).Return(nil)

	token, err := svc.IssueToken(context.Background(), "testuser", code)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// The code is single-use: the hash is cleared and last_login stamped.
	assert.Empty(t, user.ConfirmationHash)
	assert.NotNil(t, user.LastLogin)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.False(t, claims.Superuser)

	mockUserRepo.AssertExpectations(t)
}

func TestIssueToken_UnknownUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	svc := NewAuthService(mockUserRepo, mockMailer, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.IssueToken(context.Background(), "ghost", "whatever")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIssueToken_WrongCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	svc := NewAuthService(mockUserRepo, mockMailer, testConfig())

	hash, _ := bcrypt.GenerateFromPassword([]byte("right-code"), bcrypt.DefaultCost)
	user := &models.User{Username: "testuser", ConfirmationHash: string(hash)}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)

	_, err := svc.IssueToken(context.Background(), "testuser", "wrong-code")

	assert.ErrorIs(t, err, ErrBadConfirmationCode)
	mockUserRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestIssueToken_CodeAlreadyUsed(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	svc := NewAuthService(mockUserRepo, mockMailer, testConfig())

	user := &models.User{Username: "testuser", ConfirmationHash: ""}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)

	_, err := svc.IssueToken(context.Background(), "testuser", "any-code")

	assert.ErrorIs(t, err, ErrBadConfirmationCode)
}

func TestValidateToken_Garbage(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	svc := NewAuthService(mockUserRepo, mockMailer, testConfig())

	_, err := svc.ValidateToken("not.a.token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)

	cfgA := testConfig()
	cfgB := testConfig()
	cfgB.JWTSecret = "another-secret-that-is-long-enough"

	issuer := NewAuthService(mockUserRepo, mockMailer, cfgA)
	verifier := NewAuthService(mockUserRepo, mockMailer, cfgB)

	code := "code"
	hash, _ := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	user := &models.User{ID: "user-123", Username: "testuser", Role: models.RoleUser, ConfirmationHash: string(hash)}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)
	mockUserRepo.On("Update", mock.Anything, user).Return(nil)

	token, err := issuer.IssueToken(context.Background(), "testuser", code)
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
