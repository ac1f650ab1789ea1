// Package apperr define la taxonomía de errores que cruza la frontera HTTP.
package apperr

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeRateLimited  = "RATE_LIMITED"
	CodeUnavailable  = "UNAVAILABLE"
)

const fieldsKey = "fields"

// Validation devuelve un error 400 con un mensaje por campo.
func Validation(messages ...string) error {
	return oops.Code(CodeValidation).
		With(fieldsKey, messages).
		Errorf("%s", strings.Join(messages, "; "))
}

func Conflict(format string, args ...any) error {
	return oops.Code(CodeConflict).Errorf(format, args...)
}

func Unauthorized(format string, args ...any) error {
	return oops.Code(CodeUnauthorized).Errorf(format, args...)
}

func Forbidden(format string, args ...any) error {
	return oops.Code(CodeForbidden).Errorf(format, args...)
}

func NotFound(format string, args ...any) error {
	return oops.Code(CodeNotFound).Errorf(format, args...)
}

func RateLimited(format string, args ...any) error {
	return oops.Code(CodeRateLimited).Errorf(format, args...)
}

// Unavailable envuelve la causa; el cliente solo ve msg.
func Unavailable(cause error, msg string) error {
	return oops.Code(CodeUnavailable).With("public", msg).Wrap(fmt.Errorf("%s: %w", msg, cause))
}

// Status traduce err al código HTTP y al mensaje visible para el cliente.
// Cualquier error sin código conocido es 500 y su detalle no se expone.
func Status(err error) (int, string) {
	oe, ok := oops.AsOops(err)
	if !ok {
		return http.StatusInternalServerError, "Internal server error"
	}
	switch oe.Code() {
	case CodeValidation:
		return http.StatusBadRequest, oe.Error()
	case CodeConflict:
		return http.StatusConflict, oe.Error()
	case CodeUnauthorized:
		return http.StatusUnauthorized, oe.Error()
	case CodeForbidden:
		return http.StatusForbidden, oe.Error()
	case CodeNotFound:
		return http.StatusNotFound, oe.Error()
	case CodeRateLimited:
		return http.StatusTooManyRequests, oe.Error()
	case CodeUnavailable:
		if msg, ok := oe.Context()["public"].(string); ok {
			return http.StatusServiceUnavailable, msg
		}
		return http.StatusServiceUnavailable, "Service unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// Fields devuelve los mensajes por campo de un error de validación.
func Fields(err error) []string {
	oe, ok := oops.AsOops(err)
	if !ok || oe.Code() != CodeValidation {
		return nil
	}
	fields, _ := oe.Context()[fieldsKey].([]string)
	return fields
}

// Is reporta si err lleva el código dado.
func Is(err error, code string) bool {
	oe, ok := oops.AsOops(err)
	return ok && oe.Code() == code
}
