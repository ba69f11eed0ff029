package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/issueboard/issueboard/internal/pkg/database"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	mongo     *database.MongoDB
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(mongo *database.MongoDB, version string) *HealthHandler {
	return &HealthHandler{
		mongo:     mongo,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthStatus represents health check status
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := HealthStatus{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if err := h.mongo.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Checks["mongo"] = "unhealthy: " + err.Error()
	} else {
		status.Checks["mongo"] = "healthy"
	}

	if status.Status != "healthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}

// Liveness handles GET /livez
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if err := h.mongo.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not ready",
			"reason": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// Version handles GET /version
func (h *HealthHandler) Version(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": h.version,
		"uptime":  time.Since(h.startTime).String(),
	})
}
