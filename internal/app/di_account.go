package app

import (
	"fmt"

	accountHTTP "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/http"
	accountRepository "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/repository"
	accountUsecase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/usecase"
)

// AccountRepository returns the account repository based on the database driver.
func (c *Container) AccountRepository() (accountUsecase.AccountRepository, error) {
	var err error
	c.accountRepoInit.Do(func() {
		c.accountRepo, err = c.initAccountRepository()
		if err != nil {
			c.initErrors["accountRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountRepo"]; exists {
		return nil, storedErr
	}
	return c.accountRepo, nil
}

// CredentialRepository returns the credential repository based on the database driver.
func (c *Container) CredentialRepository() (accountUsecase.CredentialRepository, error) {
	var err error
	c.credentialRepoInit.Do(func() {
		c.credentialRepo, err = c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialRepo"]; exists {
		return nil, storedErr
	}
	return c.credentialRepo, nil
}

// AccountUseCase returns the account use case.
func (c *Container) AccountUseCase() (accountUsecase.UseCase, error) {
	var err error
	c.accountUseCaseInit.Do(func() {
		c.accountUseCase, err = c.initAccountUseCase()
		if err != nil {
			c.initErrors["accountUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountUseCase"]; exists {
		return nil, storedErr
	}
	return c.accountUseCase, nil
}

// AccountHandler returns the HTTP handler for account operations.
func (c *Container) AccountHandler() (*accountHTTP.AccountHandler, error) {
	var err error
	c.accountHandlerInit.Do(func() {
		c.accountHandler, err = c.initAccountHandler()
		if err != nil {
			c.initErrors["accountHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountHandler"]; exists {
		return nil, storedErr
	}
	return c.accountHandler, nil
}

// initAccountRepository creates the account repository based on the database driver.
func (c *Container) initAccountRepository() (accountUsecase.AccountRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for account repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accountRepository.NewPostgreSQLAccountRepository(db), nil
	case "mysql":
		return accountRepository.NewMySQLAccountRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCredentialRepository creates the credential repository based on the database driver.
func (c *Container) initCredentialRepository() (accountUsecase.CredentialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accountRepository.NewPostgreSQLCredentialRepository(db), nil
	case "mysql":
		return accountRepository.NewMySQLCredentialRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAccountUseCase creates the account use case with all its dependencies.
// Admin mutations are wrapped with the audit decorator so every change
// leaves a signed trail entry.
func (c *Container) initAccountUseCase() (accountUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for account use case: %w", err)
	}

	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for account use case: %w", err)
	}

	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for account use case: %w", err)
	}

	cryptoService, err := c.CryptoService()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto service for account use case: %w", err)
	}

	useCase := accountUsecase.UseCase(accountUsecase.NewAccountUseCase(
		txManager,
		accountRepo,
		credentialRepo,
		cryptoService,
	))

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for account use case: %w", err)
		}
		useCase = accountUsecase.NewUseCaseWithMetrics(useCase, businessMetrics)
	}

	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for account use case: %w", err)
	}

	return accountUsecase.NewUseCaseWithAudit(useCase, auditUC, c.Logger()), nil
}

// initAccountHandler creates the account HTTP handler with all its dependencies.
func (c *Container) initAccountHandler() (*accountHTTP.AccountHandler, error) {
	useCase, err := c.AccountUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get account use case for account handler: %w", err)
	}

	return accountHTTP.NewAccountHandler(useCase, c.Logger()), nil
}
