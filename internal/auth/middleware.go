package auth

import (
	"fmt"
	"net/http"
	"strings"

	"legal-docs-service/internal/domain/user"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Middleware struct {
	jwtService *JWTService
}

func NewMiddleware(jwtService *JWTService) *Middleware {
	return &Middleware{jwtService: jwtService}
}

// RequireJWT rejects requests without a valid bearer token and stores
// the authenticated identity in the request context.
func (m *Middleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return respondError(c, http.StatusUnauthorized, msgMissingAuthorization)
			}

			claims, err := m.jwtService.Verify(token)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyUserRole, claims.Role)

			return next(c)
		}
	}
}

// RequireRole limits a route to the given roles. Must run after
// RequireJWT.
func (m *Middleware) RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextKeyUserRole).(user.Role)
			if !ok {
				return respondError(c, http.StatusUnauthorized, msgMissingAuthorization)
			}
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return respondError(c, http.StatusForbidden, msgInsufficientRole)
		}
	}
}

// GetUserID returns the authenticated user's id from the context.
func GetUserID(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(ContextKeyUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf(msgUserIDNotInContext)
	}
	return id, nil
}

// GetUserRole returns the authenticated user's role, or the zero value
// when unauthenticated.
func GetUserRole(c echo.Context) user.Role {
	role, _ := c.Get(ContextKeyUserRole).(user.Role)
	return role
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}
