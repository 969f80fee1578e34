// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gocloud.dev/secrets"

	// KMS keeper drivers for unwrapping the signing secret.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	accountHTTP "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/http"
	accountUsecase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/usecase"
	auditService "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/service"
	auditUsecase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/usecase"
	authHTTP "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/auth/http"
	authUsecase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/auth/usecase"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/clock"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/config"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/crypto"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/database"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/http"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/metrics"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/notification"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/token"
	verificationHTTP "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/http"
	verificationUsecase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger    *slog.Logger
	db        *sql.DB
	txManager database.TxManager
	clock     clock.Clock
	jwtSecret string

	// Observability
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Shared services
	cryptoService crypto.Service
	tokenService  token.Service
	mailer        *notification.SMTPMailer
	smsGateway    verificationUsecase.SMSGateway
	auditSigner   auditService.Signer

	// Repositories
	accountRepo      accountUsecase.AccountRepository
	credentialRepo   accountUsecase.CredentialRepository
	verificationRepo verificationUsecase.Repository
	auditRepo        auditUsecase.Repository

	// Use Cases
	accountUseCase      accountUsecase.UseCase
	authUseCase         authUsecase.UseCase
	verificationUseCase verificationUsecase.UseCase
	auditUseCase        auditUsecase.UseCase

	// Handlers
	authHandler         *authHTTP.AuthHandler
	verificationHandler *verificationHTTP.VerificationHandler
	accountHandler      *accountHTTP.AccountHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                      sync.Mutex
	loggerInit              sync.Once
	dbInit                  sync.Once
	txManagerInit           sync.Once
	clockInit               sync.Once
	jwtSecretInit           sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	cryptoServiceInit       sync.Once
	tokenServiceInit        sync.Once
	mailerInit              sync.Once
	smsGatewayInit          sync.Once
	auditSignerInit         sync.Once
	accountRepoInit         sync.Once
	credentialRepoInit      sync.Once
	verificationRepoInit    sync.Once
	auditRepoInit           sync.Once
	accountUseCaseInit      sync.Once
	authUseCaseInit         sync.Once
	verificationUseCaseInit sync.Once
	auditUseCaseInit        sync.Once
	authHandlerInit         sync.Once
	verificationHandlerInit sync.Once
	accountHandlerInit      sync.Once
	httpServerInit          sync.Once
	metricsServerInit       sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// Clock returns the application clock.
func (c *Container) Clock() clock.Clock {
	c.clockInit.Do(func() {
		c.clock = clock.New()
	})
	return c.clock
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// JWTSecret returns the token signing secret, unwrapping the KMS ciphertext
// when no plaintext secret is configured.
func (c *Container) JWTSecret() (string, error) {
	var err error
	c.jwtSecretInit.Do(func() {
		c.jwtSecret, err = c.initJWTSecret()
		if err != nil {
			c.initErrors["jwtSecret"] = err
		}
	})
	if err != nil {
		return "", err
	}
	if storedErr, exists := c.initErrors["jwtSecret"]; exists {
		return "", storedErr
	}
	return c.jwtSecret, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder shared by the
// usecase decorators.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initJWTSecret resolves the signing secret. A plaintext JWT_SECRET wins;
// otherwise the KMS-wrapped ciphertext is decrypted through the configured
// keeper.
func (c *Container) initJWTSecret() (string, error) {
	if c.config.JWTSecret != "" {
		return c.config.JWTSecret, nil
	}

	if c.config.JWTSecretCiphertext == "" {
		return "", fmt.Errorf("neither JWT_SECRET nor JWT_SECRET_CIPHERTEXT is configured")
	}
	if c.config.KMSKeyURI == "" {
		return "", fmt.Errorf("JWT_SECRET_CIPHERTEXT is set but KMS_KEY_URI is not")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(c.config.JWTSecretCiphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode jwt secret ciphertext: %w", err)
	}

	ctx := context.Background()
	keeper, err := secrets.OpenKeeper(ctx, c.config.KMSKeyURI)
	if err != nil {
		return "", fmt.Errorf("failed to open kms keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			c.Logger().Warn("failed to close kms keeper", slog.String("error", closeErr.Error()))
		}
	}()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt jwt secret: %w", err)
	}

	return string(plaintext), nil
}

// TokenService returns the JWT token service.
func (c *Container) TokenService() (token.Service, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = c.initTokenService()
		if err != nil {
			c.initErrors["tokenService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// initTokenService creates the token service from the resolved signing secret.
func (c *Container) initTokenService() (token.Service, error) {
	secret, err := c.JWTSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to get jwt secret for token service: %w", err)
	}

	return token.NewService(
		secret,
		c.config.AccessTokenExpiration,
		c.config.ResetTokenExpiration,
		c.Clock(),
	)
}

// initBusinessMetrics creates the business metrics recorder, falling back to
// a no-op recorder when metrics are disabled.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initHTTPServer creates the HTTP server with the full route tree mounted.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	authHandler, err := c.AuthHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth handler for http server: %w", err)
	}

	verificationHandler, err := c.VerificationHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get verification handler for http server: %w", err)
	}

	accountHandler, err := c.AccountHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get account handler for http server: %w", err)
	}

	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for http server: %w", err)
	}

	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for http server: %w", err)
	}

	routerConfig := http.RouterConfig{
		AuthHandler:         authHandler,
		VerificationHandler: verificationHandler,
		AccountHandler:      accountHandler,
		TokenService:        tokenService,
		AccountLoader:       accountRepo,
		RateLimitEnabled:    c.config.RateLimitEnabled,
		RateLimitPerSec:     c.config.RateLimitRequestsPerSec,
		RateLimitBurst:      c.config.RateLimitBurst,
		CORSEnabled:         c.config.CORSEnabled,
		CORSAllowOrigins:    c.config.CORSAllowOrigins,
		MetricsEnabled:      c.config.MetricsEnabled,
		MetricsNamespace:    c.config.MetricsNamespace,
	}

	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
		}
		routerConfig.MeterProvider = provider.MeterProvider()
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(routerConfig)

	return server, nil
}

// initMetricsServer creates the metrics server with its own listener.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
