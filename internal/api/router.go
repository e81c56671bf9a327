package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/empleoradar/backend/internal/api/handlers"
	"github.com/empleoradar/backend/internal/config"
)

// Version is the service version reported on the root route.
const Version = "1.0.0"

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Aggregator handlers.JobAggregator
	Official   handlers.OfficialSearcher
}

// SetupRoutes wires all routes.
func SetupRoutes(app *fiber.App, cfg *config.Config, deps *Dependencies) {
	app.Get("/health", handlers.HealthCheck())
	app.Get("/", handlers.Root(Version))

	api := app.Group("/api")

	scrapeHandler := handlers.NewScrapeHandler(deps.Aggregator, cfg.Server.ScrapeDeadline)
	api.Get("/scrape", scrapeHandler.Scrape)

	jobsHandler := handlers.NewJobsHandler(deps.Aggregator, deps.Official, cfg.Server.ScrapeDeadline)
	api.Get("/jobs", jobsHandler.Jobs)
}
