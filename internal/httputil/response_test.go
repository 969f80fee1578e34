package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestSuccessGin(t *testing.T) {
	c, w := newTestContext(t)
	SuccessGin(c, http.StatusOK, "Account created", map[string]string{"email": "jane@example.com"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"message":"Account created"`)
	assert.Contains(t, w.Body.String(), `"email":"jane@example.com"`)
	assert.Contains(t, w.Body.String(), `"timestamp"`)
	assert.NotContains(t, w.Body.String(), `"error"`)
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "not found",
			err:            apperrors.Wrap(apperrors.ErrNotFound, "account"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NotFound",
		},
		{
			name:           "conflict",
			err:            apperrors.Wrap(apperrors.ErrConflict, "email taken"),
			expectedStatus: http.StatusConflict,
			expectedCode:   "DuplicateUser",
		},
		{
			name:           "invalid input",
			err:            apperrors.Wrap(apperrors.ErrInvalidInput, "email is malformed"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "ValidationError",
		},
		{
			name:           "expired",
			err:            apperrors.Wrap(apperrors.ErrExpired, "token"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "Expired",
		},
		{
			name:           "unauthorized",
			err:            apperrors.Wrap(apperrors.ErrUnauthorized, "missing token"),
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "Unauthenticated",
		},
		{
			name:           "forbidden",
			err:            apperrors.Wrap(apperrors.ErrForbidden, "role too low"),
			expectedStatus: http.StatusForbidden,
			expectedCode:   "Forbidden",
		},
		{
			name:           "locked maps to forbidden",
			err:            apperrors.Wrap(apperrors.ErrLocked, "too many attempts"),
			expectedStatus: http.StatusForbidden,
			expectedCode:   "Forbidden",
		},
		{
			name:           "coded error keeps its own code",
			err:            apperrors.WithCode(apperrors.ErrForbidden, "AccountSuspended", "Account is suspended"),
			expectedStatus: http.StatusForbidden,
			expectedCode:   "AccountSuspended",
		},
		{
			name:           "wrapped coded error keeps its own code",
			err:            apperrors.Wrap(apperrors.WithCode(apperrors.ErrConflict, "DuplicateEmail", "Email already registered"), "login"),
			expectedStatus: http.StatusConflict,
			expectedCode:   "DuplicateEmail",
		},
		{
			name:           "unknown error hides details",
			err:            assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "InternalError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
			assert.Contains(t, w.Body.String(), `"code":"`+tt.expectedCode+`"`)
		})
	}
}

func TestHandleErrorGinNilError(t *testing.T) {
	c, w := newTestContext(t)
	HandleErrorGin(c, nil, nil)

	assert.Empty(t, w.Body.String())
}

func TestHandleErrorGinRateLimited(t *testing.T) {
	c, w := newTestContext(t)
	HandleErrorGin(c, &apperrors.RateLimitedError{RetryAfter: 90 * time.Second}, nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "90", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"code":"RateLimited"`)
	assert.Contains(t, w.Body.String(), `"retryAfter":90`)
}

func TestHandleErrorGinRateLimitedSubSecond(t *testing.T) {
	c, w := newTestContext(t)
	HandleErrorGin(c, &apperrors.RateLimitedError{RetryAfter: 300 * time.Millisecond}, nil)

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	// The hint rounds up so clients never retry too early.
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestHandleErrorGinInvalidCode(t *testing.T) {
	c, w := newTestContext(t)
	HandleErrorGin(c, &apperrors.InvalidCodeError{Remaining: 2}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"InvalidCode"`)
	assert.Contains(t, w.Body.String(), `"remaining":2`)
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := newTestContext(t)
	HandleValidationErrorGin(c, assert.AnError, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"ValidationError"`)
}
