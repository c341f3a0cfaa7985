// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
)

type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "insufficient permissions"
	}
	return NewAppError(http.StatusForbidden, "FORBIDDEN", message)
}

func TokenExpiredError() *AppError {
	return NewAppError(http.StatusUnauthorized, "TOKEN_EXPIRED", "token has expired")
}

func TokenInvalidError() *AppError {
	return NewAppError(http.StatusUnauthorized, "TOKEN_INVALID", "token is invalid")
}

func DuplicateError(resource string) *AppError {
	return NewAppError(
		http.StatusConflict,
		"CONFLICT",
		fmt.Sprintf("%s already exists", resource),
	)
}

func CapacityError(message string) *AppError {
	return NewAppError(http.StatusConflict, "CAPACITY_EXCEEDED", message)
}

func ValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// FormatValidationError flattens a validator.ValidationErrors into a single
// human-readable message.
func FormatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "invalid request"
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		parts = append(parts, fmt.Sprintf(
			"%s failed on '%s'",
			strings.ToLower(fe.Field()),
			fe.Tag(),
		))
	}

	return strings.Join(parts, "; ")
}
