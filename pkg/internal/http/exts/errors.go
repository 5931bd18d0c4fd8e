package exts

import (
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func ErrorStatus(err error) int {
	var fiberErr *fiber.Error
	var partial *services.PartialFailureError
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &partial):
		return fiber.StatusInternalServerError
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrDuplicateIdentity):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// publicMessage keeps driver and query details of server errors out of responses.
func publicMessage(err error, status int) string {
	var partial *services.PartialFailureError
	switch {
	case status < fiber.StatusInternalServerError:
		return err.Error()
	case errors.As(err, &partial):
		return fmt.Sprintf("%s may be partially applied: step %s failed", partial.Operation, partial.Step)
	case errors.Is(err, services.ErrStorageUnavailable):
		return "storage unavailable"
	default:
		return "internal server error"
	}
}

// NewError turns a service error into a fiber error with a matching status.
// Server errors are logged here because the response only carries a summary.
func NewError(err error) *fiber.Error {
	status := ErrorStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Msg("An error occurred when handling request...")
	}
	return fiber.NewError(status, publicMessage(err, status))
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
		})
	}

	status := ErrorStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("An error occurred when handling request...")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": publicMessage(err, status),
	})
}
