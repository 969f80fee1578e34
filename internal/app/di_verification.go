package app

import (
	"fmt"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/notification"
	verificationHTTP "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/http"
	verificationRepository "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/repository"
	verificationUsecase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/usecase"
)

// VerificationRepository returns the verification repository based on the
// database driver.
func (c *Container) VerificationRepository() (verificationUsecase.Repository, error) {
	var err error
	c.verificationRepoInit.Do(func() {
		c.verificationRepo, err = c.initVerificationRepository()
		if err != nil {
			c.initErrors["verificationRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["verificationRepo"]; exists {
		return nil, storedErr
	}
	return c.verificationRepo, nil
}

// SMSGateway returns the configured SMS delivery backend.
func (c *Container) SMSGateway() (verificationUsecase.SMSGateway, error) {
	var err error
	c.smsGatewayInit.Do(func() {
		c.smsGateway, err = c.initSMSGateway()
		if err != nil {
			c.initErrors["smsGateway"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["smsGateway"]; exists {
		return nil, storedErr
	}
	return c.smsGateway, nil
}

// VerificationUseCase returns the verification engine use case.
func (c *Container) VerificationUseCase() (verificationUsecase.UseCase, error) {
	var err error
	c.verificationUseCaseInit.Do(func() {
		c.verificationUseCase, err = c.initVerificationUseCase()
		if err != nil {
			c.initErrors["verificationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["verificationUseCase"]; exists {
		return nil, storedErr
	}
	return c.verificationUseCase, nil
}

// VerificationHandler returns the HTTP handler for verification operations.
func (c *Container) VerificationHandler() (*verificationHTTP.VerificationHandler, error) {
	var err error
	c.verificationHandlerInit.Do(func() {
		c.verificationHandler, err = c.initVerificationHandler()
		if err != nil {
			c.initErrors["verificationHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["verificationHandler"]; exists {
		return nil, storedErr
	}
	return c.verificationHandler, nil
}

// initVerificationRepository creates the verification repository based on
// the database driver.
func (c *Container) initVerificationRepository() (verificationUsecase.Repository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for verification repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return verificationRepository.NewPostgreSQLRepository(db), nil
	case "mysql":
		return verificationRepository.NewMySQLRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSMSGateway creates the SMS gateway selected by configuration. The
// "smtp" backend relays codes through carrier email-to-SMS addresses; "log"
// only writes them to the application log.
func (c *Container) initSMSGateway() (verificationUsecase.SMSGateway, error) {
	switch c.config.SMSGateway {
	case "smtp":
		return notification.NewCarrierSMSGateway(c.Mailer(), c.Logger()), nil
	case "log":
		return notification.NewLogSMSGateway(c.Logger()), nil
	default:
		return nil, fmt.Errorf("unsupported sms gateway: %s", c.config.SMSGateway)
	}
}

// initVerificationUseCase creates the verification engine with all its
// dependencies.
func (c *Container) initVerificationUseCase() (verificationUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for verification use case: %w", err)
	}

	verificationRepo, err := c.VerificationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get verification repository for verification use case: %w", err)
	}

	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for verification use case: %w", err)
	}

	cryptoService, err := c.CryptoService()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto service for verification use case: %w", err)
	}

	smsGateway, err := c.SMSGateway()
	if err != nil {
		return nil, fmt.Errorf("failed to get sms gateway for verification use case: %w", err)
	}

	useCaseConfig := verificationUsecase.Config{
		DevMode:           c.config.IsDevelopment(),
		EmailResendWindow: c.config.EmailResendWindow,
		EmailTokenTTL:     c.config.EmailTokenExpiration,
		PhoneResendWindow: c.config.PhoneResendWindow,
		PhoneCodeTTL:      c.config.PhoneCodeExpiration,
		PhoneMaxAttempts:  c.config.PhoneMaxAttempts,
	}

	baseUseCase := verificationUsecase.NewVerificationUseCase(
		txManager,
		verificationRepo,
		accountRepo,
		cryptoService,
		c.Mailer(),
		smsGateway,
		c.Clock(),
		useCaseConfig,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for verification use case: %w", err)
		}
		return verificationUsecase.NewUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initVerificationHandler creates the verification HTTP handler with all its
// dependencies.
func (c *Container) initVerificationHandler() (*verificationHTTP.VerificationHandler, error) {
	useCase, err := c.VerificationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get verification use case for verification handler: %w", err)
	}

	return verificationHTTP.NewVerificationHandler(useCase, c.Logger()), nil
}
