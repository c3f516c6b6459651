package service

import (
	"alcyxob/gym-membership/internal/domain"
	"alcyxob/gym-membership/internal/repository" // Import repository package
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4" // Import JWT library
	"golang.org/x/crypto/bcrypt"   // Import bcrypt
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("staff account with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// TokenIssuer is the iss claim of staff tokens.
const TokenIssuer = "gym-membership"

// --- Service Interface ---
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetJWTSecret() string
}

// --- Service Implementation ---

// authService implements the AuthService interface for staff accounts.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 8 * time.Hour // One front-desk shift
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates a staff account.
func (s *authService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if email == "" {
		return nil, invalid("email", "is required")
	}
	if len(password) < 8 {
		return nil, invalid("password", "must be at least 8 characters")
	}
	if !domain.ValidRole(role) {
		return nil, invalid("role", "must be admin or staff")
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, &StorageError{Op: "lookup staff", Err: err}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		// ID, CreatedAt, UpdatedAt are set by the repository layer
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// Lost the race against a concurrent registration; the unique index catches it.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, &StorageError{Op: "create staff", Err: err}
	}
	user.ID = userID

	// Remove password hash before returning
	user.PasswordHash = ""
	return user, nil
}

// Login handles staff authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		err = invalid("credentials", "email and password are required")
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed // Unknown email maps to auth failure
			return
		}
		err = &StorageError{Op: "lookup staff", Err: err}
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		err = ErrAuthenticationFailed
		user = nil
		return
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`  // Staff ID
	Role   domain.Role `json:"role"` // Staff role
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given staff account.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the secret tokens are signed with; the API middleware verifies against it.
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
