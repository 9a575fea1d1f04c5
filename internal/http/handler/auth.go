package handler

import (
	"net/http"
	"time"

	"legal-docs-service/internal/audit"
	"legal-docs-service/internal/auth"
	"legal-docs-service/internal/domain/user"
	"legal-docs-service/internal/http/middleware"
	"legal-docs-service/internal/repository"
	pkgauth "legal-docs-service/pkg/auth"
	apperrors "legal-docs-service/pkg/errors"
	"legal-docs-service/pkg/validator"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	auditor    audit.Recorder
}

func NewAuthHandler(users repository.UserRepository, jwtService *auth.JWTService, auditor audit.Recorder) *AuthHandler {
	return &AuthHandler{users: users, jwtService: jwtService, auditor: auditor}
}

type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Role      user.Role  `json:"role"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if err := validator.Email(req.Email); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Password(req.Password); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Name(req.FirstName); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Name(req.LastName); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	hash, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return respondAppError(c, err)
	}

	u, err := h.users.Create(c.Request().Context(), user.CreateUserInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         user.RoleUser,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	h.auditor.Record(c.Request().Context(), audit.Event{
		ActorID:      &u.ID,
		Action:       audit.ActionSignup,
		ResourceType: audit.ResourceTypeUser,
		ResourceID:   &u.ID,
		Status:       audit.StatusSuccess,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		RequestID:    middleware.GetRequestID(c),
	})

	return c.JSON(http.StatusCreated, map[string]any{jsonKeyUser: toUserResponse(u)})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	u, err := h.users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil || !pkgauth.VerifyPassword(req.Password, u.PasswordHash) {
		// Same response for unknown email and wrong password.
		return respondAppError(c, apperrors.InvalidCredentials())
	}
	if u.Status != user.StatusActive {
		return respondAppError(c, apperrors.Forbidden("account is not active"))
	}

	token, err := h.jwtService.Generate(u)
	if err != nil {
		return respondAppError(c, err)
	}

	if err := h.users.UpdateLastLogin(c.Request().Context(), u.ID); err != nil {
		c.Logger().Warnf("failed to update last login for user %s: %v", u.ID, err)
	}

	h.auditor.Record(c.Request().Context(), audit.Event{
		ActorID:      &u.ID,
		Action:       audit.ActionLogin,
		ResourceType: audit.ResourceTypeUser,
		ResourceID:   &u.ID,
		Status:       audit.StatusSuccess,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		RequestID:    middleware.GetRequestID(c),
	})

	return c.JSON(http.StatusOK, map[string]any{
		jsonKeyToken: token,
		jsonKeyUser:  toUserResponse(u),
	})
}

// ListUsers is admin-only, enforced by route middleware.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context(), defaultPageSize, 0)
	if err != nil {
		return respondAppError(c, err)
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, map[string]any{jsonKeyUsers: out, jsonKeyCount: len(out)})
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}
