package api

import (
	"alcyxob/gym-membership/internal/domain"
	"alcyxob/gym-membership/internal/logging"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Constants for context keys
const (
	ContextUserIDKey   = "userID"
	ContextUserRoleKey = "userRole"
)

var (
	errMissingHeader = errors.New("authorization header is missing")
	errHeaderFormat  = errors.New("authorization header format must be Bearer {token}")
	errTokenExpired  = errors.New("token has expired")
	errMissingClaims = errors.New("invalid token or missing claims")
	errUnknownRole   = errors.New("token carries an unknown role")
)

// jwtClaims mirrors the claims authService signs.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// staffIdentity is the desk user behind an authenticated request.
type staffIdentity struct {
	UserID string
	Role   domain.Role
}

// AuthMiddleware authenticates staff by bearer JWT. The identity goes into the
// gin context for handlers and the user id into the request context, where
// service log records pick it up as staff_id.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}

		staff, err := parseStaffToken(tokenString, jwtSecret, time.Now())
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, errUnknownRole) {
				status = http.StatusForbidden
			}
			abortWithError(c, status, err.Error())
			return
		}

		c.Set(ContextUserIDKey, staff.UserID)
		c.Set(ContextUserRoleKey, staff.Role)
		c.Request = c.Request.WithContext(logging.WithStaff(c.Request.Context(), staff.UserID))
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" || strings.Contains(token, " ") {
		return "", errHeaderFormat
	}
	return token, nil
}

// parseStaffToken verifies an HMAC-signed token and returns the staff identity it names.
// Tokens without an expiry are never issued, so they are rejected as expired.
func parseStaffToken(tokenString, secret string, now time.Time) (staffIdentity, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return staffIdentity{}, errTokenExpired
		}
		return staffIdentity{}, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid || claims.UserID == "" || claims.Role == "" {
		return staffIdentity{}, errMissingClaims
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return staffIdentity{}, errTokenExpired
	}
	if !domain.ValidRole(claims.Role) {
		return staffIdentity{}, errUnknownRole
	}
	return staffIdentity{UserID: claims.UserID, Role: claims.Role}, nil
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RoleMiddleware admits only the listed roles. Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		staff, err := staffFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		if !slices.Contains(allowedRoles, staff.Role) {
			abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: Role '%s' does not have permission", staff.Role))
			return
		}
		c.Next()
	}
}

func staffFromContext(c *gin.Context) (staffIdentity, error) {
	id, ok := c.Get(ContextUserIDKey)
	if !ok {
		return staffIdentity{}, errors.New("user ID not found in context")
	}
	role, ok := c.Get(ContextUserRoleKey)
	if !ok {
		return staffIdentity{}, errors.New("user role not found in context")
	}
	staff := staffIdentity{}
	if staff.UserID, ok = id.(string); !ok {
		return staffIdentity{}, errors.New("invalid user ID type in context")
	}
	if staff.Role, ok = role.(domain.Role); !ok {
		return staffIdentity{}, errors.New("invalid user role type in context")
	}
	return staff, nil
}
