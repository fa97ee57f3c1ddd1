package handlers

import (
	"errors"
	"log"

	"rps-match-service/services"

	"github.com/gofiber/fiber/v2"
)

// errorResponse maps an engine error to its HTTP status and writes the
// standard error body. Anything outside the taxonomy is a storage failure
// surfaced as 500 so the caller can retry the whole operation.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrMatchNotFound), errors.Is(err, services.ErrPlayerNoMatches):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrSelfJoin), errors.Is(err, services.ErrInvalidChoice):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotAParticipant), errors.Is(err, services.ErrNotViewable):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrDuplicateMove),
		errors.Is(err, services.ErrLimitExceeded):
		status = fiber.StatusConflict
	}
	if status == fiber.StatusInternalServerError {
		log.Printf("❌ [HTTP] %s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("player_id").(string)
	return id
}
