package http

import (
	"context"
	stdhttp "net/http"
	"strconv"

	"legal-docs-service/internal/audit"
	"legal-docs-service/internal/auth"
	"legal-docs-service/internal/config"
	"legal-docs-service/internal/domain/user"
	"legal-docs-service/internal/http/handler"
	"legal-docs-service/internal/http/middleware"
	"legal-docs-service/internal/repository"
	"legal-docs-service/internal/service"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	jsonKeyStatus = "status"
	statusOK      = "ok"

	// bodyLimitOverheadBytes leaves room for multipart framing and the
	// accompanying form fields, so a file at exactly the upload limit is
	// rejected by the validator with a descriptive error rather than by
	// the body-limit middleware.
	bodyLimitOverheadBytes = 1 << 20
)

// bodyLimit renders the request body cap for echo's body-limit
// middleware, derived from the configured maximum upload size.
func bodyLimit(maxUploadBytes int64) string {
	return strconv.FormatInt(maxUploadBytes+bodyLimitOverheadBytes, 10)
}

type ServerDependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	Documents      *service.DocumentService
	Analyses       *service.AnalysisService
	Signatures     *service.SignatureService
	UserRepo       repository.UserRepository
	JWTService     *auth.JWTService
	AuthMiddleware *auth.Middleware
	Auditor        audit.Recorder
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware first, so all logs have request ID
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(bodyLimit(deps.Config.Upload.MaxSizeBytes)))

	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	// Strict rate limiting for auth endpoints
	strictRateLimiter := middleware.NewStrictRateLimiter()

	authHandler := handler.NewAuthHandler(deps.UserRepo, deps.JWTService, deps.Auditor)
	documentHandler := handler.NewDocumentHandler(deps.Documents, deps.Auditor)
	analysisHandler := handler.NewAnalysisHandler(deps.Analyses, deps.Auditor)
	signatureHandler := handler.NewSignatureHandler(deps.Signatures, deps.Auditor)

	e.POST("/auth/signup", authHandler.Signup, strictRateLimiter.Middleware())
	e.POST("/auth/login", authHandler.Login, strictRateLimiter.Middleware())
	e.GET("/health", healthCheck)

	api := e.Group("/api")
	api.Use(deps.AuthMiddleware.RequireJWT())

	api.POST("/documents", documentHandler.Upload)
	api.GET("/documents", documentHandler.List)
	api.GET("/documents/:id", documentHandler.Get)
	api.DELETE("/documents/:id", documentHandler.Delete)
	api.POST("/documents/:id/archive", documentHandler.Archive, deps.AuthMiddleware.RequireRole(user.RoleAdmin))

	api.POST("/documents/:id/analyze", analysisHandler.Start)
	api.GET("/documents/:id/analysis", analysisHandler.Get)
	api.GET("/analyses/:id", analysisHandler.GetResult)

	api.POST("/documents/:id/signatures", signatureHandler.Save)
	api.GET("/documents/:id/signatures", signatureHandler.ListByDocument)

	api.GET("/users", authHandler.ListUsers, deps.AuthMiddleware.RequireRole(user.RoleAdmin))

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
