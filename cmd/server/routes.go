package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes registers all HTTP routes
func registerRoutes(app *fiber.App, deps *Dependencies) {
	// Health check routes
	app.Get("/health", deps.HealthHandler.Health)
	app.Get("/healthz", deps.HealthHandler.Health)
	app.Get("/livez", deps.HealthHandler.Liveness)
	app.Get("/readyz", deps.HealthHandler.Readiness)
	app.Get("/version", deps.HealthHandler.Version)

	// Prometheus metrics
	if deps.Config.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	// Issue API: one project-scoped resource path, four verbs
	api := app.Group("/api")
	api.Get("/issues/:project", deps.IssuesHandler.ListIssues)
	api.Post("/issues/:project", deps.IssuesHandler.CreateIssue)
	api.Put("/issues/:project", deps.IssuesHandler.UpdateIssue)
	api.Delete("/issues/:project", deps.IssuesHandler.DeleteIssue)
}
