// handlers/match_routes.go
package handlers

import (
	"rps-match-service/middleware"
	"rps-match-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService, queryService *services.MatchQueryService) {
	// 🔐 All match routes require player context from the Gateway
	secured := app.Group("/", middleware.PlayerContextMiddleware())

	secured.Post("/matches", func(c *fiber.Ctx) error {
		match, err := matchService.CreateMatch(playerID(c))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"match_id": match.ID})
	})

	// Polled by clients every few seconds; the engine itself never pushes.
	secured.Get("/matches", func(c *fiber.Ctx) error {
		list, err := queryService.ListMatches(playerID(c))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(list)
	})

	secured.Get("/matches/:id", func(c *fiber.Ctx) error {
		detail, err := queryService.GetMatchDetail(c.Params("id"), playerID(c))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(detail)
	})

	secured.Post("/matches/:id/join", func(c *fiber.Ctx) error {
		if err := matchService.JoinMatch(c.Params("id"), playerID(c)); err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	secured.Post("/matches/:id/moves", func(c *fiber.Ctx) error {
		var req struct {
			Choice string `json:"choice"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		match, err := matchService.SubmitMove(c.Params("id"), playerID(c), req.Choice)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"ok": true, "status": match.Status})
	})

	secured.Post("/matches/:id/ack", func(c *fiber.Ctx) error {
		if err := matchService.AcknowledgeResult(c.Params("id"), playerID(c)); err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"ok": true})
	})
}
