package http

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	accountDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	accountHTTP "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/http"
	authHTTP "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/auth/http"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/metrics"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/token"
	verificationHTTP "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/http"
)

// RouterConfig carries the handlers and cross-cutting settings SetupRouter
// needs to assemble the route tree.
type RouterConfig struct {
	AuthHandler         *authHTTP.AuthHandler
	VerificationHandler *verificationHTTP.VerificationHandler
	AccountHandler      *accountHTTP.AccountHandler

	// TokenService and AccountLoader back the authentication middleware.
	TokenService  token.Service
	AccountLoader authHTTP.AccountLoader

	// Per-IP token bucket applied to the public auth endpoints.
	RateLimitEnabled bool
	RateLimitPerSec  float64
	RateLimitBurst   int

	CORSEnabled      bool
	CORSAllowOrigins string

	// MeterProvider, when set together with MetricsEnabled, attaches the
	// HTTP metrics middleware. The /metrics endpoint itself lives on the
	// separate metrics listener.
	MetricsEnabled   bool
	MetricsNamespace string
	MeterProvider    metric.MeterProvider
}

// SetupRouter builds the gin engine and mounts every route the API serves.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(RequestIDContextMiddleware())
	router.Use(CustomLoggerMiddleware(s.logger))

	if cfg.MetricsEnabled && cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	authenticated := authHTTP.AuthenticationMiddleware(cfg.TokenService, cfg.AccountLoader, s.logger)

	// Unauthenticated credential flows. These are the only endpoints an
	// attacker can hammer without a token, so the rate limiter sits here.
	public := router.Group("/auth")
	if cfg.RateLimitEnabled {
		public.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitPerSec, cfg.RateLimitBurst, s.logger))
	}
	public.POST("/register", cfg.AuthHandler.Register)
	public.POST("/login", cfg.AuthHandler.Login)
	public.POST("/password/reset-request", cfg.AuthHandler.RequestPasswordReset)
	public.POST("/password/reset", cfg.AuthHandler.ResetPassword)
	public.GET("/verify/email/confirm", cfg.VerificationHandler.ConfirmEmail)

	protected := router.Group("/auth")
	protected.Use(authenticated)
	protected.GET("/me", cfg.AccountHandler.Me)
	protected.POST("/user/password/change", cfg.AuthHandler.ChangePassword)
	protected.POST("/verify/email/send", cfg.VerificationHandler.SendEmail)
	protected.POST("/verify/phone/send", cfg.VerificationHandler.SendPhone)
	protected.POST("/verify/phone/verify", cfg.VerificationHandler.VerifyPhone)

	admin := router.Group("/admin")
	admin.Use(authenticated)
	admin.Use(authHTTP.RequireMinRole(accountDomain.RoleAdmin, s.logger))
	admin.POST("/users", cfg.AccountHandler.CreateUser)
	admin.GET("/users", cfg.AccountHandler.ListUsers)
	admin.GET("/users/search", cfg.AccountHandler.SearchUsers)
	admin.GET("/users/:id", cfg.AccountHandler.GetUser)
	admin.PUT("/users/:id", cfg.AccountHandler.UpdateUser)
	admin.DELETE("/users/:id", cfg.AccountHandler.DeleteUser)
	admin.PUT("/users/:id/password", cfg.AccountHandler.ResetUserPassword)
	admin.PUT("/users/:id/role", cfg.AccountHandler.ChangeUserRole)
	admin.GET("/dashboard/stats", cfg.AccountHandler.DashboardStats)

	s.router = router
}
