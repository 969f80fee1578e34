// Package http provides HTTP handlers for account self-service and admin
// account management.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	accountDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/http/dto"
	accountUseCase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/usecase"
	authHTTP "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/auth/http"
	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/httputil"
)

// AccountHandler handles HTTP requests for account management operations.
type AccountHandler struct {
	accountUseCase accountUseCase.UseCase
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler with required dependencies.
func NewAccountHandler(useCase accountUseCase.UseCase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUseCase: useCase,
		logger:         logger,
	}
}

// caller returns the authenticated account or writes a 401 envelope.
func (h *AccountHandler) caller(c *gin.Context) (*accountDomain.Account, bool) {
	account, ok := authHTTP.GetAccount(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "no authenticated account"), h.logger)
		return nil, false
	}
	return account, true
}

// targetID parses the :id path parameter.
func (h *AccountHandler) targetID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		httputil.HandleBadRequestGin(c, apperrors.New("invalid user id"), h.logger)
		return 0, false
	}
	return id, true
}

// Me handles GET /auth/me.
func (h *AccountHandler) Me(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	account, err := h.accountUseCase.GetSelf(c.Request.Context(), caller.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "", gin.H{"user": dto.MapAccountToResponse(account)})
}

// CreateUser handles POST /admin/users.
func (h *AccountHandler) CreateUser(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var input accountUseCase.CreateAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	account, err := h.accountUseCase.Create(c.Request.Context(), caller, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusCreated, "User created",
		gin.H{"user": dto.MapAccountToResponse(account)})
}

// ListUsers handles GET /admin/users.
func (h *AccountHandler) ListUsers(c *gin.Context) {
	page, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var filters accountDomain.ListFilters
	if status := c.Query("status"); status != "" {
		s := accountDomain.Status(status)
		filters.Status = &s
	}
	if roleStr := c.Query("role"); roleStr != "" {
		roleInt, err := strconv.Atoi(roleStr)
		if err != nil {
			httputil.HandleBadRequestGin(c, apperrors.New("invalid role filter"), h.logger)
			return
		}
		role := accountDomain.Role(roleInt)
		filters.Role = &role
	}

	result, err := h.accountUseCase.List(c.Request.Context(), filters, page, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "", dto.MapPageToListResponse(result))
}

// SearchUsers handles GET /admin/users/search.
func (h *AccountHandler) SearchUsers(c *gin.Context) {
	page, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var fields []string
	if raw := c.Query("fields"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			if field = strings.TrimSpace(field); field != "" {
				fields = append(fields, field)
			}
		}
	}

	result, err := h.accountUseCase.Search(c.Request.Context(), c.Query("q"), fields, page, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "", dto.MapPageToListResponse(result))
}

// GetUser handles GET /admin/users/:id.
func (h *AccountHandler) GetUser(c *gin.Context) {
	id, ok := h.targetID(c)
	if !ok {
		return
	}

	account, err := h.accountUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "", gin.H{"user": dto.MapAccountToResponse(account)})
}

// UpdateUser handles PUT /admin/users/:id. The patch accepts only
// accountStatus, emailVerified, and phoneVerified; unknown fields are
// rejected rather than ignored.
func (h *AccountHandler) UpdateUser(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.targetID(c)
	if !ok {
		return
	}

	var input accountUseCase.UpdateAccountInput
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	account, err := h.accountUseCase.Update(c.Request.Context(), caller, id, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "User updated",
		gin.H{"user": dto.MapAccountToResponse(account)})
}

// DeleteUser handles DELETE /admin/users/:id.
func (h *AccountHandler) DeleteUser(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.targetID(c)
	if !ok {
		return
	}

	if err := h.accountUseCase.Delete(c.Request.Context(), caller, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "User deleted", nil)
}

// ResetUserPassword handles PUT /admin/users/:id/password.
func (h *AccountHandler) ResetUserPassword(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.targetID(c)
	if !ok {
		return
	}

	var req dto.ResetUserPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.accountUseCase.ResetPassword(c.Request.Context(), caller, id, req.Password); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "Password reset", nil)
}

// ChangeUserRole handles PUT /admin/users/:id/role.
func (h *AccountHandler) ChangeUserRole(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.targetID(c)
	if !ok {
		return
	}

	var req dto.ChangeUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	account, err := h.accountUseCase.ChangeRole(c.Request.Context(), caller, id, req.Role)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "Role updated",
		gin.H{"user": dto.MapAccountToResponse(account)})
}

// DashboardStats handles GET /admin/dashboard/stats.
func (h *AccountHandler) DashboardStats(c *gin.Context) {
	counts, err := h.accountUseCase.DashboardStats(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.SuccessGin(c, http.StatusOK, "", dto.MapCountsToDashboardResponse(counts))
}
