package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"legaldesk/internal/model"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string               `json:"status"`
	Database string               `json:"database,omitempty"`
	Backend  model.HealthSnapshot `json:"backend"`
}

// HealthCheck reports gateway health. db may be nil when chat history is kept
// in memory; a configured database that fails its ping makes the gateway
// unhealthy. The backend snapshot is informational only.
//
// @Summary Gateway health
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB, backendHealth func() model.HealthSnapshot) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := HealthResponse{Status: "healthy"}
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
			res.Database = "up"
		}
		if backendHealth != nil {
			res.Backend = backendHealth()
		}
		return c.Status(fiber.StatusOK).JSON(res)
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
