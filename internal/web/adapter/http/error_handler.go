package http

import (
	"errors"
	"strings"

	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler renders errors as JSON under /api and /ws, and as an HTML page elsewhere
func NewErrorHandler(log logger.Logger) fiber.ErrorHandler {
	log = log.WithComponent("http")

	return func(c *fiber.Ctx, err error) error {
		status := apperrors.HTTPStatus(err)
		message := err.Error()

		var fiberErr *fiber.Error
		var appErr *apperrors.AppError
		switch {
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		case errors.As(err, &appErr):
			message = appErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			log.WithContext(c.UserContext()).WithError(err).Errorf("%s %s failed", c.Method(), c.Path())
			if status != fiber.StatusBadGateway {
				message = "Internal server error"
			}
		}

		if wantsJSON(c) {
			return c.Status(status).JSON(fiber.Map{"error": message})
		}

		if status == fiber.StatusNotFound {
			if rerr := RenderNotFound(c, "Page not found."); rerr == nil {
				return nil
			}
		} else if rerr := c.Status(status).Render("error", statusPage{
			page:    page{PageTitle: "Error"},
			Status:  status,
			Message: message,
		}, LayoutMain); rerr == nil {
			return nil
		}

		return c.Status(status).SendString(message)
	}
}

func wantsJSON(c *fiber.Ctx) bool {
	path := c.Path()
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/ws/")
}
