package serverutils

import (
	"errors"

	"demarches-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain errors returned by controllers to HTTP
// responses. Unknown errors become an opaque 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		message := "internal server error"

		switch {
		case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrTemplateNotFound):
			status = fiber.StatusNotFound
			message = err.Error()
		case errors.Is(err, apperr.ErrValidationFailed):
			status = fiber.StatusBadRequest
			message = err.Error()
		case errors.Is(err, apperr.ErrIncompleteRequirements), errors.Is(err, apperr.ErrConflict):
			status = fiber.StatusConflict
			message = err.Error()
		case errors.Is(err, apperr.ErrUnauthorized):
			status = fiber.StatusUnauthorized
			message = err.Error()
		default:
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
				message = fiberErr.Message
			}
		}

		return ctx.Status(status).JSON(FailureResponse(message))
	}
}
