package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	accountDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/token"
)

// MockTokenService is a mock implementation of the token service.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) MintAccess(id int64, email string, role int) (string, error) {
	args := m.Called(id, email, role)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) MintReset(id int64, email string) (string, error) {
	args := m.Called(id, email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) VerifyAccess(tokenString string) (*token.AccessClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.AccessClaims), args.Error(1)
}

func (m *MockTokenService) VerifyReset(tokenString string) (*token.ResetClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.ResetClaims), args.Error(1)
}

// MockAccountLoader is a mock implementation of the account loader.
type MockAccountLoader struct {
	mock.Mock
}

func (m *MockAccountLoader) GetByID(ctx context.Context, id int64) (*accountDomain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

// setupProtectedRouter builds a router with the authentication middleware
// and a probe route that reports the authenticated account ID.
func setupProtectedRouter(t *testing.T) (*gin.Engine, *MockTokenService, *MockAccountLoader) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mockTokens := &MockTokenService{}
	mockAccounts := &MockAccountLoader{}

	router := gin.New()
	router.Use(AuthenticationMiddleware(mockTokens, mockAccounts, logger))
	router.GET("/probe", func(c *gin.Context) {
		account, ok := GetAccount(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": account.ID})
	})

	return router, mockTokens, mockAccounts
}

func accessClaims(account *accountDomain.Account) *token.AccessClaims {
	return &token.AccessClaims{
		ID:    account.ID,
		Email: account.Email,
		Role:  int(account.Role),
	}
}

func TestAuthenticationMiddleware(t *testing.T) {
	t.Run("Success_BearerToken", func(t *testing.T) {
		router, mockTokens, mockAccounts := setupProtectedRouter(t)
		account := activeAccount(7)

		mockTokens.On("VerifyAccess", "good.jwt").Return(accessClaims(account), nil)
		mockAccounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer good.jwt")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":7`)
		mockTokens.AssertExpectations(t)
		mockAccounts.AssertExpectations(t)
	})

	t.Run("Success_LegacyHeader", func(t *testing.T) {
		router, mockTokens, mockAccounts := setupProtectedRouter(t)
		account := activeAccount(7)

		mockTokens.On("VerifyAccess", "legacy.jwt").Return(accessClaims(account), nil)
		mockAccounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set(token.LegacyHeader, "legacy.jwt")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("BearerWinsOverLegacyHeader", func(t *testing.T) {
		router, mockTokens, mockAccounts := setupProtectedRouter(t)
		account := activeAccount(7)

		mockTokens.On("VerifyAccess", "bearer.jwt").Return(accessClaims(account), nil)
		mockAccounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer bearer.jwt")
		req.Header.Set(token.LegacyHeader, "legacy.jwt")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockTokens.AssertNotCalled(t, "VerifyAccess", "legacy.jwt")
	})

	t.Run("Error_NoToken", func(t *testing.T) {
		router, _, _ := setupProtectedRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_InvalidToken", func(t *testing.T) {
		router, mockTokens, _ := setupProtectedRouter(t)

		mockTokens.On("VerifyAccess", "bad.jwt").Return(nil, token.ErrTokenInvalid)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer bad.jwt")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_ExpiredToken", func(t *testing.T) {
		router, mockTokens, _ := setupProtectedRouter(t)

		mockTokens.On("VerifyAccess", "old.jwt").Return(nil, token.ErrTokenExpired)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer old.jwt")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_AccountGone", func(t *testing.T) {
		router, mockTokens, mockAccounts := setupProtectedRouter(t)
		account := activeAccount(7)

		mockTokens.On("VerifyAccess", "good.jwt").Return(accessClaims(account), nil)
		mockAccounts.On("GetByID", mock.Anything, account.ID).
			Return(nil, apperrors.Wrap(apperrors.ErrNotFound, "account not found"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer good.jwt")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_DeletedAccount", func(t *testing.T) {
		router, mockTokens, mockAccounts := setupProtectedRouter(t)
		account := activeAccount(7)
		deletedAt := account.CreatedAt
		account.DeletedAt = &deletedAt
		account.Status = accountDomain.StatusDeleted

		mockTokens.On("VerifyAccess", "good.jwt").Return(accessClaims(account), nil)
		mockAccounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer good.jwt")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireMinRole(t *testing.T) {
	setupRoleRouter := func(t *testing.T, minRole accountDomain.Role, caller *accountDomain.Account) *gin.Engine {
		t.Helper()

		gin.SetMode(gin.TestMode)
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		router := gin.New()
		if caller != nil {
			router.Use(func(c *gin.Context) {
				c.Request = c.Request.WithContext(WithAccount(c.Request.Context(), caller))
				c.Next()
			})
		}
		router.Use(RequireMinRole(minRole, logger))
		router.GET("/probe", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		return router
	}

	t.Run("Success_ExactRole", func(t *testing.T) {
		caller := activeAccount(1)
		caller.Role = accountDomain.RoleAdmin
		router := setupRoleRouter(t, accountDomain.RoleAdmin, caller)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_HigherRole", func(t *testing.T) {
		caller := activeAccount(1)
		caller.Role = accountDomain.RoleOwner
		router := setupRoleRouter(t, accountDomain.RoleAdmin, caller)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_InsufficientRole", func(t *testing.T) {
		caller := activeAccount(1)
		caller.Role = accountDomain.RoleModerator
		router := setupRoleRouter(t, accountDomain.RoleAdmin, caller)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "InsufficientRole")
	})

	t.Run("Error_NoAccountInContext", func(t *testing.T) {
		router := setupRoleRouter(t, accountDomain.RoleAdmin, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
