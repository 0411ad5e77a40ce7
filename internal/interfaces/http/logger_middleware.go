package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/asesoria-financiera/pkg/logger"
)

const localRequestID = "request_id"

// RequestLogger registra cada request con latencia y request id; el nivel depende del status.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := strings.TrimSpace(c.Get(fiber.HeaderXRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals(localRequestID, requestID)
		c.Set(fiber.HeaderXRequestID, requestID)

		err := c.Next()
		if err != nil {
			// el ErrorHandler escribe la respuesta; así el status registrado es el final
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}
		event.
			Str("request_id", requestID).
			Int("status", status).
			Str("method", c.Method()).
			Str("path", c.OriginalURL()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.IP()).
			Str("user_id", GetUserID(c)).
			Msg("http_request")
		return nil
	}
}

// RequestID id del request asignado por RequestLogger.
func RequestID(c *fiber.Ctx) string {
	s, _ := c.Locals(localRequestID).(string)
	return s
}
