package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/auth/http/dto"
	authUseCase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/auth/usecase"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/httputil"
)

// AuthHandler handles the credential flow endpoints.
type AuthHandler struct {
	authUseCase authUseCase.UseCase
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
func NewAuthHandler(useCase authUseCase.UseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: useCase,
		logger:      logger,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var input authUseCase.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	output, err := h.authUseCase.Register(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "Registration successful",
		dto.MapAuthOutputToResponse(output))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	output, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "Login successful",
		dto.MapAuthOutputToResponse(output))
}

// ChangePassword handles POST /auth/user/password/change.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	account, ok := GetAccount(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "no authenticated account"), h.logger)
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	err := h.authUseCase.ChangePassword(c.Request.Context(), account.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "Password changed", nil)
}

// RequestPasswordReset handles POST /auth/password/reset-request.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.ResetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	output, err := h.authUseCase.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var data any
	if output.ResetToken != "" {
		data = dto.ResetRequestResponse{ResetToken: output.ResetToken}
	}
	httputil.SuccessGin(c, http.StatusOK, output.Message, data)
}

// ResetPassword handles POST /auth/password/reset.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	err := h.authUseCase.ResetPassword(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "Password reset successful", nil)
}
