// Package server provides the HTTP API for importing and storing résumés.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/jobtracker/internal/importer"
	"github.com/jonathan/jobtracker/internal/schemas"
	"github.com/jonathan/jobtracker/internal/store"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrRequestBody indicates a request body that could not be read or decoded
type ErrRequestBody struct {
	Message string
	Cause   error
}

func (e *ErrRequestBody) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid request body: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid request body: %s", e.Message)
}

func (e *ErrRequestBody) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		bodyErr       *ErrRequestBody
		fieldErrs     validator.ValidationErrors
		schemaErr     *schemas.ValidationError
		notFound      *store.NotFoundError
		parseErr      *importer.ParseError
		tooLarge      *http.MaxBytesError
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validationErr), errors.As(err, &bodyErr),
		errors.As(err, &fieldErrs), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
