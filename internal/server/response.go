// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"kidtube/internal/middleware"
	"kidtube/internal/models"
)

// envelope is the wire shape of every API response. code mirrors the
// HTTP status so clients that ignore transport status still see the
// outcome.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respondOK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(envelope{
		Code:    fiber.StatusOK,
		Message: "ok",
		Data:    data,
	})
}

func respondCreated(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(envelope{
		Code:    fiber.StatusCreated,
		Message: "ok",
		Data:    data,
	})
}

// respondError maps an error onto the envelope. AppError kinds carry
// their own status; anything else is an opaque 500 so internals never
// leak to clients.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeNotFound:
			status = fiber.StatusNotFound
		case models.CodeConflict, models.CodeValidation:
			status = fiber.StatusBadRequest
		}
		if appErr.Code != models.CodeInternal {
			message = appErr.Message
		}
	}

	if status == fiber.StatusInternalServerError {
		middleware.Logger.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
	}

	return c.Status(status).JSON(envelope{
		Code:    status,
		Message: message,
		Data:    nil,
	})
}
