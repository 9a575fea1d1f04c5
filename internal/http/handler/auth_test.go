package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupBody(email string) SignupRequest {
	return SignupRequest{
		FirstName: "Ada",
		LastName:  "Park",
		Email:     email,
		Password:  "s3cure-password",
	}
}

func TestSignup_CreatesUser(t *testing.T) {
	f := newFixture(t)

	c, rec := f.jsonRequest(http.MethodPost, "/auth/signup", signupBody("ada@example.com"))
	require.NoError(t, f.authHandler.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	u, ok := body[jsonKeyUser].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", u["email"])
	assert.Equal(t, "user", u["role"])
	assert.NotContains(t, u, "password")
	assert.NotContains(t, rec.Body.String(), "s3cure-password")
}

func TestSignup_ValidationFailures(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body SignupRequest
	}{
		{"bad email", SignupRequest{FirstName: "A", LastName: "B", Email: "not-an-email", Password: "s3cure-password"}},
		{"short password", SignupRequest{FirstName: "A", LastName: "B", Email: "a@example.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := f.jsonRequest(http.MethodPost, "/auth/signup", tt.body)
			require.NoError(t, f.authHandler.Signup(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	f := newFixture(t)

	c, rec := f.jsonRequest(http.MethodPost, "/auth/signup", signupBody("ada@example.com"))
	require.NoError(t, f.authHandler.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = f.jsonRequest(http.MethodPost, "/auth/signup", signupBody("ada@example.com"))
	require.NoError(t, f.authHandler.Signup(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignup_RejectsUnknownFields(t *testing.T) {
	f := newFixture(t)

	c, rec := f.jsonRequest(http.MethodPost, "/auth/signup", map[string]any{
		"email":    "a@example.com",
		"password": "s3cure-password",
		"is_admin": true,
	})
	require.NoError(t, f.authHandler.Signup(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_ReturnsToken(t *testing.T) {
	f := newFixture(t)

	c, rec := f.jsonRequest(http.MethodPost, "/auth/signup", signupBody("ada@example.com"))
	require.NoError(t, f.authHandler.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = f.jsonRequest(http.MethodPost, "/auth/login", LoginRequest{
		Email:    "ada@example.com",
		Password: "s3cure-password",
	})
	require.NoError(t, f.authHandler.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body[jsonKeyToken])
	u, ok := body[jsonKeyUser].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", u["email"])
}

func TestLogin_SameResponseForUnknownEmailAndWrongPassword(t *testing.T) {
	f := newFixture(t)

	c, rec := f.jsonRequest(http.MethodPost, "/auth/signup", signupBody("ada@example.com"))
	require.NoError(t, f.authHandler.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, wrongPass := f.jsonRequest(http.MethodPost, "/auth/login", LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong-password-entirely",
	})
	require.NoError(t, f.authHandler.Login(c))

	c, unknownEmail := f.jsonRequest(http.MethodPost, "/auth/login", LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cure-password",
	})
	require.NoError(t, f.authHandler.Login(c))

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPass.Body.String(), unknownEmail.Body.String())
}

func TestLogin_RequiresJSONContentType(t *testing.T) {
	f := newFixture(t)

	c, rec := f.jsonRequest(http.MethodPost, "/auth/login", LoginRequest{})
	c.Request().Header.Set("Content-Type", "text/plain")
	require.NoError(t, f.authHandler.Login(c))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)

	c, rec := f.jsonRequest(http.MethodPost, "/auth/signup", signupBody("ada@example.com"))
	require.NoError(t, f.authHandler.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = f.jsonRequest(http.MethodGet, "/api/users", nil)
	require.NoError(t, f.authHandler.ListUsers(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body[jsonKeyCount])
}
