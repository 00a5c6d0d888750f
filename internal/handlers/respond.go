// Package handlers contains the HTTP layer. Handlers parse the request, call
// a service, and serialize the result; every domain error passes through the
// single translation point in fail.
package handlers

import (
	"log/slog"

	"github.com/geoincidents/backend/internal/apperr"
	"github.com/geoincidents/backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(dto.Envelope{Success: true, Data: data})
}

func okMessage(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(dto.Envelope{Success: true, Message: message, Data: data})
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{
		Success: true, Message: message, Data: data,
	})
}

func paginated(c *fiber.Ctx, data interface{}, pagination *dto.Pagination) error {
	return c.JSON(dto.Envelope{Success: true, Data: data, Pagination: pagination})
}

// fail translates a service error into the response envelope. Non-domain
// errors are logged with the request path and hidden behind a generic message.
func fail(c *fiber.Ctx, err error) error {
	status, message, known := apperr.Status(err)
	if !known {
		slog.Error("Unhandled error", "path", c.Path(), "method", c.Method(), "error", err)
	}
	return c.Status(status).JSON(dto.Envelope{Success: false, Error: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Envelope{Success: false, Error: message})
}
