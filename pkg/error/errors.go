package error

import (
	"errors"
	"net/http"

	"github.com/auditra/auditra/internal/domain"
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrBadRequest     = &AppError{Code: "BAD_REQUEST", Message: "Bad request", Status: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Not found", Status: http.StatusNotFound}
	ErrValidation     = &AppError{Code: "VALIDATION_FAILED", Message: "Validation failed", Status: http.StatusUnprocessableEntity}
	ErrConflict       = &AppError{Code: "CONFLICT", Message: "Conflict", Status: http.StatusConflict}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "Internal server error", Status: http.StatusInternalServerError}
)

func NewBadRequest(message string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: message, Status: http.StatusBadRequest}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: message, Status: http.StatusNotFound}
}

func NewValidation(message string) *AppError {
	return &AppError{Code: "VALIDATION_FAILED", Message: message, Status: http.StatusUnprocessableEntity}
}

func NewInternalServer(message string) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: message, Status: http.StatusInternalServerError}
}

// MapError converts domain and use-case errors to their HTTP representation
func MapError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrAuditNotFound),
		errors.Is(err, domain.ErrEvaluationNotFound),
		errors.Is(err, domain.ErrSurveyNotFound):
		return NewNotFound(err.Error())
	case errors.Is(err, domain.ErrRubricIncomplete),
		errors.Is(err, domain.ErrReportIncomplete):
		return NewValidation(err.Error())
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return NewValidation(domainErr.Error())
	}
	return NewInternalServer("An unexpected error occurred")
}
