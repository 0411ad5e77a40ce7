package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
)

// Pinger base de datos u otro recurso que responde a Ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler estado del servicio.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler construye el handler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check godoc
// @Summary Estado del servicio
// @Tags sistema
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if h.db == nil || h.db.Ping(ctx) != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "degraded", Database: "down"})
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Database: "up"})
}
