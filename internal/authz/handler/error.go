package handler

import (
	"errors"
	"net/http"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
	"github.com/sebastianliew/l2l-backend/internal/authz/policy"
	"github.com/sebastianliew/l2l-backend/internal/authz/repository"
	"github.com/sebastianliew/l2l-backend/internal/authz/service"
)

// Helper to map errors to HTTP status and body. Not-found and inactive
// principals map to the same 401 as a missing identity so responses never
// reveal whether an id exists.
func httpError(err error) (int, interface{}) {
	var code string
	var msg string
	var status int

	var confErr *policy.ConfigError

	switch {
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrPrincipalNotFound),
		errors.Is(err, service.ErrPrincipalInactive):
		status = http.StatusUnauthorized
		code = "unauthorized"
		msg = "Unauthorized"
	case errors.Is(err, service.ErrBadRequest):
		status = http.StatusBadRequest
		code = "bad_request"
		msg = "Invalid input"
	case errors.As(err, &confErr):
		status = http.StatusBadRequest
		code = "bad_request"
		msg = confErr.Error()
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
		msg = "Record not found"
	default:
		status = http.StatusInternalServerError
		code = "internal_error"
		msg = err.Error()
	}

	return status, model.ErrorResponse{
		Error: model.ErrorDetail{Code: code, Message: msg},
	}
}

func validationError(err error) model.ErrorResponse {
	detail := model.FormatValidationError(err)
	return model.ErrorResponse{Error: *detail}
}
