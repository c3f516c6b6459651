package service

import (
	"alcyxob/gym-membership/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	users := newMemUsers()
	svc := NewAuthService(users, "test-secret", time.Hour)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Front Desk", "Desk@Gym.test", "s3cret-pass", domain.RoleStaff)
	require.NoError(t, err)
	assert.Empty(t, u.PasswordHash)
	assert.Equal(t, "desk@gym.test", u.Email)

	_, err = svc.Register(ctx, "Again", "desk@gym.test", "s3cret-pass", domain.RoleStaff)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	token, user, err := svc.Login(ctx, "desk@gym.test", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, user.Role)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(svc.GetJWTSecret()), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, TokenIssuer, claims.Issuer)
	assert.Equal(t, user.ID.Hex(), claims.UserID)

	_, _, err = svc.Login(ctx, "desk@gym.test", "wrong-pass")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "nobody@gym.test", "s3cret-pass")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := NewAuthService(newMemUsers(), "test-secret", 0)
	ctx := context.Background()

	_, err := svc.Register(ctx, "X", "x@gym.test", "short", domain.RoleStaff)
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = svc.Register(ctx, "X", "x@gym.test", "long-enough", domain.Role("trainer"))
	assert.ErrorIs(t, err, ErrValidationFailed)
}
