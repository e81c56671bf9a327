package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports liveness with a server timestamp.
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Root returns basic service info.
func Root(version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    "Job Aggregation API",
			"version": version,
			"health":  "/health",
			"scrape":  "/api/scrape",
			"jobs":    "/api/jobs",
		})
	}
}
