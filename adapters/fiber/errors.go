package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/harborview/clubhouse/core"
)

// handleServiceError maps service errors to JSON error responses. Sentinel
// errors carry member-safe messages; anything else is masked so store
// internals never reach the client.
func handleServiceError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrUnauthorized),
		errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrAccountDeactivated):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, core.ErrEmailTaken):
		return http.StatusConflict

	case errors.Is(err, core.ErrInvalidResetToken),
		errors.Is(err, core.ErrEmailRequired),
		errors.Is(err, core.ErrInvalidEmail),
		errors.Is(err, core.ErrPasswordRequired),
		errors.Is(err, core.ErrPasswordTooShort),
		errors.Is(err, core.ErrPasswordTooLong),
		errors.Is(err, core.ErrTitleRequired),
		errors.Is(err, core.ErrStartsAtRequired):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
