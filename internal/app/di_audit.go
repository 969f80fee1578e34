package app

import (
	"fmt"

	auditRepository "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/repository"
	auditService "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/service"
	auditUsecase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/audit/usecase"
)

// AuditSigner returns the HMAC signer for audit entries. Its key is derived
// from the token signing secret, so a deployment needs only one secret.
func (c *Container) AuditSigner() (auditService.Signer, error) {
	var err error
	c.auditSignerInit.Do(func() {
		c.auditSigner, err = c.initAuditSigner()
		if err != nil {
			c.initErrors["auditSigner"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditSigner"]; exists {
		return nil, storedErr
	}
	return c.auditSigner, nil
}

// AuditRepository returns the audit repository based on the database driver.
func (c *Container) AuditRepository() (auditUsecase.Repository, error) {
	var err error
	c.auditRepoInit.Do(func() {
		c.auditRepo, err = c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// AuditUseCase returns the audit trail use case.
func (c *Container) AuditUseCase() (auditUsecase.UseCase, error) {
	var err error
	c.auditUseCaseInit.Do(func() {
		c.auditUseCase, err = c.initAuditUseCase()
		if err != nil {
			c.initErrors["auditUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

// initAuditSigner creates the audit entry signer.
func (c *Container) initAuditSigner() (auditService.Signer, error) {
	secret, err := c.JWTSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to get signing secret for audit signer: %w", err)
	}

	return auditService.NewSigner([]byte(secret))
}

// initAuditRepository creates the audit repository based on the database driver.
func (c *Container) initAuditRepository() (auditUsecase.Repository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return auditRepository.NewPostgreSQLRepository(db), nil
	case "mysql":
		return auditRepository.NewMySQLRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditUseCase creates the audit use case with all its dependencies.
func (c *Container) initAuditUseCase() (auditUsecase.UseCase, error) {
	repo, err := c.AuditRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for audit use case: %w", err)
	}

	signer, err := c.AuditSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit signer for audit use case: %w", err)
	}

	return auditUsecase.NewAuditUseCase(repo, signer, c.Clock()), nil
}
