// Package http provides the verification HTTP surface.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/auth/http"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/httputil"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/http/dto"
	verificationUseCase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/usecase"
)

// VerificationHandler handles the email and phone verification endpoints.
type VerificationHandler struct {
	verificationUseCase verificationUseCase.UseCase
	logger              *slog.Logger
}

// NewVerificationHandler creates a new verification handler.
func NewVerificationHandler(useCase verificationUseCase.UseCase, logger *slog.Logger) *VerificationHandler {
	return &VerificationHandler{
		verificationUseCase: useCase,
		logger:              logger,
	}
}

// SendEmail handles POST /auth/verify/email/send.
func (h *VerificationHandler) SendEmail(c *gin.Context) {
	account, ok := authHTTP.GetAccount(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "no authenticated account"), h.logger)
		return
	}

	output, err := h.verificationUseCase.SendEmail(c.Request.Context(), account.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, output.Message, dto.MapEmailSendOutput(output))
}

// ConfirmEmail handles GET /auth/verify/email/confirm.
func (h *VerificationHandler) ConfirmEmail(c *gin.Context) {
	token := c.Query("token")

	if err := h.verificationUseCase.ConfirmEmail(c.Request.Context(), token); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "Email verified", nil)
}

// SendPhone handles POST /auth/verify/phone/send.
func (h *VerificationHandler) SendPhone(c *gin.Context) {
	account, ok := authHTTP.GetAccount(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "no authenticated account"), h.logger)
		return
	}

	// An empty body is fine; carrier is optional.
	var req dto.SendPhoneRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
	}

	output, err := h.verificationUseCase.SendPhone(c.Request.Context(), account.ID, req.Carrier)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, output.Message, dto.MapPhoneSendOutput(output))
}

// VerifyPhone handles POST /auth/verify/phone/verify.
func (h *VerificationHandler) VerifyPhone(c *gin.Context) {
	account, ok := authHTTP.GetAccount(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "no authenticated account"), h.logger)
		return
	}

	var req dto.VerifyPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.verificationUseCase.VerifyPhone(c.Request.Context(), account.ID, req.Code); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "Phone verified", nil)
}
