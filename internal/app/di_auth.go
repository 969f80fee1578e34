package app

import (
	"fmt"

	authHTTP "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/auth/http"
	authUsecase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/auth/usecase"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/crypto"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/notification"
)

// CryptoService returns the credential hashing service.
func (c *Container) CryptoService() (crypto.Service, error) {
	var err error
	c.cryptoServiceInit.Do(func() {
		c.cryptoService, err = c.initCryptoService()
		if err != nil {
			c.initErrors["cryptoService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cryptoService"]; exists {
		return nil, storedErr
	}
	return c.cryptoService, nil
}

// Mailer returns the SMTP mailer shared by the credential and verification
// flows.
func (c *Container) Mailer() *notification.SMTPMailer {
	c.mailerInit.Do(func() {
		c.mailer = notification.NewSMTPMailer(notification.SMTPConfig{
			Host:     c.config.SMTPHost,
			Port:     c.config.SMTPPort,
			Username: c.config.SMTPUsername,
			Password: c.config.SMTPPassword,
			From:     c.config.MailFrom,
		}, c.config.BaseURL, c.Logger())
	})
	return c.mailer
}

// AuthUseCase returns the credential engine use case.
func (c *Container) AuthUseCase() (authUsecase.UseCase, error) {
	var err error
	c.authUseCaseInit.Do(func() {
		c.authUseCase, err = c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

// AuthHandler returns the HTTP handler for the credential flows.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	var err error
	c.authHandlerInit.Do(func() {
		c.authHandler, err = c.initAuthHandler()
		if err != nil {
			c.initErrors["authHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.authHandler, nil
}

// initCryptoService creates the crypto service with the configured password
// hasher.
func (c *Container) initCryptoService() (crypto.Service, error) {
	hasher, err := crypto.NewHasher(c.config.PasswordHasher)
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}
	return crypto.NewService(hasher), nil
}

// initAuthUseCase creates the credential engine with all its dependencies.
func (c *Container) initAuthUseCase() (authUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for auth use case: %w", err)
	}

	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for auth use case: %w", err)
	}

	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for auth use case: %w", err)
	}

	verificationRepo, err := c.VerificationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get verification repository for auth use case: %w", err)
	}

	cryptoService, err := c.CryptoService()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto service for auth use case: %w", err)
	}

	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for auth use case: %w", err)
	}

	useCaseConfig := authUsecase.Config{
		DevMode:            c.config.IsDevelopment(),
		EmailTokenTTL:      c.config.EmailTokenExpiration,
		ResetRequestWindow: c.config.ResetRequestWindow,
	}

	baseUseCase, err := authUsecase.NewAuthUseCase(
		txManager,
		accountRepo,
		credentialRepo,
		verificationRepo,
		cryptoService,
		tokenService,
		c.Mailer(),
		c.Clock(),
		useCaseConfig,
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth use case: %w", err)
	}

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
		}
		return authUsecase.NewUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAuthHandler creates the auth HTTP handler with all its dependencies.
func (c *Container) initAuthHandler() (*authHTTP.AuthHandler, error) {
	useCase, err := c.AuthUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth use case for auth handler: %w", err)
	}

	return authHTTP.NewAuthHandler(useCase, c.Logger()), nil
}
