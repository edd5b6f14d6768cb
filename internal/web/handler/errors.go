package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoWebAPP/GoWebAPP/internal/content"
	"github.com/GoWebAPP/GoWebAPP/internal/engagement"
	"github.com/GoWebAPP/GoWebAPP/internal/pwa"
	"github.com/GoWebAPP/GoWebAPP/internal/settings"
	"github.com/GoWebAPP/GoWebAPP/internal/web/response"
)

// Status maps a domain error to its HTTP status and client message.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, settings.ErrUnauthorized):
		return fiber.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, settings.ErrForbidden):
		return fiber.StatusForbidden, "Forbidden"
	case errors.Is(err, engagement.ErrUnauthenticated):
		return fiber.StatusUnauthorized, engagement.ErrUnauthenticated.Error()
	case errors.Is(err, engagement.ErrInvalidPostID):
		return fiber.StatusBadRequest, engagement.ErrInvalidPostID.Error()
	case errors.Is(err, settings.ErrInvalidInput), errors.Is(err, pwa.ErrInvalidIcon):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, engagement.ErrPostNotFound), errors.Is(err, content.ErrNotFound),
		errors.Is(err, pwa.ErrUnsupportedSize):
		return fiber.StatusNotFound, "Not Found"
	default:
		return fiber.StatusInternalServerError, "Internal Server Error"
	}
}

// Fail writes err as a failure envelope. Unexpected errors are logged.
func Fail(c *fiber.Ctx, err error) error {
	status, message := Status(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return response.Fail(c, status, message)
}
