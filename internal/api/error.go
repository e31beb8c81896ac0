package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/form"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeInternal        = "INTERNAL"
)

func ErrInvalid(msg string) error  { return &APIError{Code: ErrCodeInvalidArgument, Message: msg} }
func ErrConflict(msg string) error { return &APIError{Code: ErrCodeConflict, Message: msg} }
func ErrInternal(msg string) error { return &APIError{Code: ErrCodeInternal, Message: msg} }

type errDTO struct {
	Error *APIError `json:"error"`
}

func newErrDTO(err error) errDTO {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return errDTO{Error: apiErr}
	}
	if errors.Is(err, form.ErrSubmissionPending) {
		return errDTO{Error: &APIError{Code: ErrCodeConflict, Message: err.Error()}}
	}
	return errDTO{Error: &APIError{Code: ErrCodeInternal, Message: err.Error()}}
}

func toHTTPStatus(err error) int {
	dto := newErrDTO(err)
	switch dto.Error.Code {
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
