// handlers/stats_routes.go
package handlers

import (
	"rps-match-service/middleware"
	"rps-match-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupStatsRoutes(app *fiber.App, statsService *services.StatsService) {
	secured := app.Group("/", middleware.PlayerContextMiddleware())

	secured.Get("/stats", func(c *fiber.Ctx) error {
		report, err := statsService.GetAllStats()
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(report)
	})

	secured.Get("/stats/players/:playerId", func(c *fiber.Ctx) error {
		stats, err := statsService.GetPlayerStats(c.Params("playerId"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(stats)
	})

	secured.Get("/stats/players/:playerId/head-to-head", func(c *fiber.Ctx) error {
		pairs, err := statsService.GetHeadToHead(c.Params("playerId"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(pairs)
	})
}
