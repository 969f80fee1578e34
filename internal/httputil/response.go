// Package httputil provides HTTP utility functions for request and response handling.
//
// Every JSON body follows a single envelope:
//
//	{"success": bool, "message"?: string, "data"?: any,
//	 "error"?: {"code": string}, "timestamp": RFC3339}
package httputil

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/errors"
)

// Response is the envelope shared by all API responses.
type Response struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message,omitempty"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	Timestamp string     `json:"timestamp"`
}

// ErrorBody carries the machine-readable error code.
type ErrorBody struct {
	Code string `json:"code"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// SuccessGin writes a success envelope with the given status code.
func SuccessGin(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
	})
}

// ErrorGin writes a failure envelope. The optional data payload carries
// machine hints such as retryAfter or remaining attempt counts.
func ErrorGin(c *gin.Context, status int, code, message string, data any) {
	c.JSON(status, Response{
		Success:   false,
		Message:   message,
		Data:      data,
		Error:     &ErrorBody{Code: code},
		Timestamp: timestamp(),
	})
}

// HandleErrorGin maps domain errors to HTTP status codes and writes the
// failure envelope. Coded domain errors keep their own code and message;
// everything else falls back to the sentinel mapping. Internal errors are
// never echoed to the client.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, code, message, data := mapError(err)

	if rl, ok := data.(rateLimitData); ok {
		c.Header("Retry-After", fmt.Sprintf("%d", rl.RetryAfter))
	}

	// Log the full error details (including wrapped errors)
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", code),
			slog.Any("error", err),
		)
	}

	ErrorGin(c, statusCode, code, message, data)
}

// rateLimitData is the data payload for 429 responses.
type rateLimitData struct {
	RetryAfter int `json:"retryAfter"`
}

// remainingData is the data payload for wrong-code responses.
type remainingData struct {
	Remaining int `json:"remaining"`
}

func mapError(err error) (statusCode int, code, message string, data any) {
	// Typed errors carrying machine hints come first.
	var rateLimited *apperrors.RateLimitedError
	if apperrors.As(err, &rateLimited) {
		retryAfter := int(rateLimited.RetryAfter.Seconds())
		if rateLimited.RetryAfter > 0 && retryAfter == 0 {
			retryAfter = 1
		}
		return http.StatusTooManyRequests, "RateLimited",
			"Too many requests. Please retry later.", rateLimitData{RetryAfter: retryAfter}
	}

	var invalidCode *apperrors.InvalidCodeError
	if apperrors.As(err, &invalidCode) {
		return http.StatusBadRequest, "InvalidCode",
			"Invalid verification code", remainingData{Remaining: invalidCode.Remaining}
	}

	statusCode = statusFromSentinel(err)

	var coded *apperrors.CodedError
	if apperrors.As(err, &coded) {
		return statusCode, coded.Code, coded.Message, nil
	}

	switch statusCode {
	case http.StatusNotFound:
		return statusCode, "NotFound", "The requested resource was not found", nil
	case http.StatusConflict:
		return statusCode, "DuplicateUser", "A conflict occurred with existing data", nil
	case http.StatusBadRequest:
		if apperrors.Is(err, apperrors.ErrExpired) {
			return statusCode, "Expired", "The resource has expired", nil
		}
		return statusCode, "ValidationError", err.Error(), nil
	case http.StatusUnauthorized:
		return statusCode, "Unauthenticated", "Authentication is required", nil
	case http.StatusForbidden:
		return statusCode, "Forbidden", "You don't have permission to perform this action", nil
	case http.StatusTooManyRequests:
		return statusCode, "RateLimited", "Too many requests. Please retry later.", nil
	default:
		// Unknown/internal errors never leak details to the client.
		return http.StatusInternalServerError, "InternalError", "An internal error occurred", nil
	}
}

func statusFromSentinel(err error) int {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case apperrors.Is(err, apperrors.ErrExpired):
		return http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case apperrors.Is(err, apperrors.ErrLocked):
		return http.StatusForbidden
	case apperrors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case apperrors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// HandleBadRequestGin writes a 400 envelope for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}
	ErrorGin(c, http.StatusBadRequest, "ValidationError", err.Error(), nil)
}

// HandleValidationErrorGin writes a 400 envelope for input validation failures.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}
	ErrorGin(c, http.StatusBadRequest, "ValidationError", err.Error(), nil)
}
