package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-tenants/internal/infrastructure/metrics"
	"github.com/jhoicas/Inventario-tenants/pkg/logger"
)

// HeaderRequestID cabecera de correlación.
const HeaderRequestID = "X-Request-ID"

const localRequestID = "request_id"

// RequestID reutiliza el X-Request-ID entrante o genera uno nuevo, y lo devuelve en la respuesta.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(localRequestID, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)
	return id
}

// Observe resuelve el error de la cadena con el ErrorHandler de la app para conocer el status
// final, y luego registra la petición en el log y en las métricas.
func Observe(log *logger.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()

		route := c.Route().Path
		if m != nil {
			m.ObserveRequest(c.Method(), route, strconv.Itoa(status), elapsed)
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Int64("user_id", GetUserID(c)).
			Msg("request")
		return nil
	}
}
