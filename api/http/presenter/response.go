package presenter

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/vbncursed/talentgate/pkg/apperr"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

// FromError maps domain errors onto HTTP statuses. Unknown errors become a
// generic 500 so internals never leak to clients.
func FromError(c *fiber.Ctx, err error) error {
	var (
		validation *apperr.ValidationError
		conflict   *apperr.ConflictError
		authz      *apperr.AuthorizationError
		extraction *apperr.ExtractionError
	)
	switch {
	case errors.As(err, &validation):
		return JSON(c, http.StatusBadRequest, ErrorResponse{Message: validation.Message, Field: validation.Field})
	case errors.As(err, &extraction):
		return Error(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &conflict):
		return JSON(c, http.StatusConflict, ErrorResponse{Message: conflict.Reason, Field: conflict.Field})
	case errors.As(err, &authz):
		return Error(c, http.StatusForbidden, authz.Reason)
	case errors.Is(err, apperr.ErrNotFound):
		return Error(c, http.StatusNotFound, "not found")
	default:
		return Error(c, http.StatusInternalServerError, "internal error")
	}
}
