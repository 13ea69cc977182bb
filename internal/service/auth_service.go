package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reviewhub/internal/config"
	"reviewhub/internal/mailer"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

var (
	ErrReservedUsername    = errors.New("username 'me' is reserved")
	ErrInvalidUsername     = errors.New("username contains invalid characters")
	ErrUsernameTaken       = errors.New("username already in use")
	ErrEmailTaken          = errors.New("email already in use")
	ErrUserNotFound        = errors.New("user not found")
	ErrBadConfirmationCode = errors.New("invalid confirmation code")
	ErrInvalidToken        = errors.New("invalid token")
)

// usernameRe matches letters, digits and @/./+/-/_ only.
var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

// Claims is the decoded identity carried by an access token.
type Claims struct {
	UserID    string
	Username  string
	Role      string
	Superuser bool
}

type AuthService interface {
	Signup(ctx context.Context, username, email string) (*models.User, error)
	IssueToken(ctx context.Context, username, confirmationCode string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	mail           mailer.Mailer
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, mail mailer.Mailer, cfg *config.Config) AuthService {
	return &authService{
		userRepo:       userRepo,
		mail:           mail,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

// ValidateNewUsername enforces the reserved-name and character rules shared
// by signup and the admin user endpoints.
func ValidateNewUsername(username string) error {
	if strings.EqualFold(username, "me") {
		return ErrReservedUsername
	}
	if !usernameRe.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// Signup registers a passwordless account and sends a single-use
// confirmation code. Only a bcrypt hash of the code is stored; the code is
// invalidated when a token is issued for it.
func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if err := ValidateNewUsername(username); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	code := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:         username,
		Email:            email,
		Role:             models.RoleUser,
		ConfirmationHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Two signups racing on the same identity: the database constraint
		// wins and the loser sees a validation error.
		if repository.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	if err := s.mail.SendConfirmationCode(ctx, email, username, code); err != nil {
		return nil, err
	}
	return user, nil
}

// IssueToken exchanges a confirmation code for a bearer access token. The
// stored hash is cleared on success, so each code works exactly once.
func (s *authService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if user.ConfirmationHash == "" {
		return "", ErrBadConfirmationCode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.ConfirmationHash), []byte(confirmationCode)); err != nil {
		return "", ErrBadConfirmationCode
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return "", err
	}

	now := time.Now()
	user.ConfirmationHash = ""
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}
	return token, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"username":  user.Username,
		"role":      user.Role,
		"superuser": user.Superuser,
		"exp":       time.Now().Add(s.accessTokenTTL).Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	if claims.UserID, ok = mapClaims["user_id"].(string); !ok {
		return nil, ErrInvalidToken
	}
	if claims.Username, ok = mapClaims["username"].(string); !ok {
		return nil, ErrInvalidToken
	}
	if claims.Role, ok = mapClaims["role"].(string); !ok {
		return nil, ErrInvalidToken
	}
	claims.Superuser, _ = mapClaims["superuser"].(bool)
	return claims, nil
}
