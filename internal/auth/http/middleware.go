// Package http provides the authentication HTTP surface: handlers for the
// credential flows plus the middleware protecting authenticated routes.
package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	accountDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/httputil"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/token"
)

// errInsufficientRole is returned when an authenticated caller lacks the
// role a route group requires.
var errInsufficientRole = apperrors.WithCode(
	apperrors.ErrForbidden, "InsufficientRole", "Insufficient role for this operation")

// AccountLoader resolves token claims to a live account.
type AccountLoader interface {
	GetByID(ctx context.Context, id int64) (*accountDomain.Account, error)
}

// AuthenticationMiddleware authenticates requests via a JWT access token.
//
// The token is taken from the Authorization header ("Bearer <t>",
// case-insensitive) or the legacy x-access-token header; Bearer wins when
// both are present. Verified claims are resolved against the store so
// deleted accounts and stale role claims never pass. The loaded account is
// stashed in the request context for GetAccount.
func AuthenticationMiddleware(
	tokenService token.Service,
	accounts AccountLoader,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := token.Extract(c.GetHeader("Authorization"), c.GetHeader(token.LegacyHeader))
		if err != nil {
			logger.Debug("authentication failed: no token supplied")
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		claims, err := tokenService.VerifyAccess(raw)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		account, err := accounts.GetByID(c.Request.Context(), claims.ID)
		if err != nil {
			// A valid token for a missing or deleted account is treated the
			// same as an invalid one.
			if apperrors.Is(err, apperrors.ErrNotFound) {
				err = token.ErrTokenInvalid
			}
			logger.Debug("authentication failed: account lookup",
				slog.Int64("account_id", claims.ID), slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}
		if account.IsDeleted() {
			httputil.HandleErrorGin(c, token.ErrTokenInvalid, logger)
			c.Abort()
			return
		}

		ctx := WithAccount(c.Request.Context(), account)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.Int64("account_id", account.ID),
			slog.String("role", account.Role.String()))

		c.Next()
	}
}

// RequireMinRole rejects authenticated callers below the given role. It must
// run after AuthenticationMiddleware.
func RequireMinRole(minRole accountDomain.Role, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := GetAccount(c.Request.Context())
		if !ok || account == nil {
			logger.Debug("authorization failed: no authenticated account in context")
			httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "no authenticated account"), logger)
			c.Abort()
			return
		}

		if account.Role < minRole {
			logger.Debug("authorization failed: insufficient role",
				slog.Int64("account_id", account.ID),
				slog.String("role", account.Role.String()),
				slog.String("required", minRole.String()))
			httputil.HandleErrorGin(c, errInsufficientRole, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
