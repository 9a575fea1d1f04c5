package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legal-docs-service/internal/domain/user"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() *user.User {
	return &user.User{
		ID:    uuid.New(),
		Email: "ada@example.com",
		Role:  user.RoleLegalAnalyst,
	}
}

func TestJWT_GenerateVerifyRoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	u := testUser()

	token, err := svc.Generate(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, user.RoleLegalAnalyst, claims.Role)
}

func TestJWT_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(testSecret, -time.Minute)

	token, err := svc.Generate(testUser())
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestJWT_RejectsWrongSecret(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	other := NewJWTService("another-secret-another-secret-12", time.Hour)

	token, err := svc.Generate(testUser())
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestJWT_RejectsGarbage(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	_, err := svc.Verify("not.a.token")
	assert.Error(t, err)
}

func newAuthedContext(t *testing.T, e *echo.Echo, svc *JWTService, u *user.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	token, err := svc.Generate(u)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireJWT_SetsIdentity(t *testing.T) {
	e := echo.New()
	svc := NewJWTService(testSecret, time.Hour)
	mw := NewMiddleware(svc)
	u := testUser()

	c, rec := newAuthedContext(t, e, svc, u)

	var gotID uuid.UUID
	var gotRole user.Role
	handler := mw.RequireJWT()(func(c echo.Context) error {
		id, err := GetUserID(c)
		require.NoError(t, err)
		gotID = id
		gotRole = GetUserRole(c)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, u.ID, gotID)
	assert.Equal(t, u.Role, gotRole)
}

func TestRequireJWT_RejectsMissingAndBadTokens(t *testing.T) {
	e := echo.New()
	mw := NewMiddleware(NewJWTService(testSecret, time.Hour))

	handler := mw.RequireJWT()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"malformed", "Bearer"},
		{"invalid token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(headerAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, handler(c))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	svc := NewJWTService(testSecret, time.Hour)
	mw := NewMiddleware(svc)

	handler := mw.RequireJWT()(mw.RequireRole(user.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}))

	admin := &user.User{ID: uuid.New(), Email: "root@example.com", Role: user.RoleAdmin}
	c, rec := newAuthedContext(t, e, svc, admin)
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newAuthedContext(t, e, svc, testUser())
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetUserID_MissingFromContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	_, err := GetUserID(c)
	assert.Error(t, err)
}
