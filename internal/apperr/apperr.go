// Package apperr defines the domain error taxonomy. Services raise these and
// a single translation point in the HTTP layer serializes them; anything that
// is not an *Error surfaces to clients as a generic internal error.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Validation flags malformed input or a business-rule violation.
func Validation(message string) *Error {
	return New(fiber.StatusBadRequest, message)
}

// Conflict flags a uniqueness violation. It maps to 400, matching the
// observed wire behavior of the original API.
func Conflict(message string) *Error {
	return New(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(fiber.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(fiber.StatusNotFound, message)
}

// Status extracts the HTTP status and client-safe message from err. For
// non-domain errors it reports 500 with ok=false so callers can log the real
// error and suppress the message.
func Status(err error) (int, string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Status, e.Message, true
	}
	return fiber.StatusInternalServerError, "Internal server error", false
}
