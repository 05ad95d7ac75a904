package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/infrastructure/metrics"
	"github.com/jhoicas/Inventario-tenants/pkg/logger"
)

// statusFor traduce el tipo de error de dominio a código HTTP.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindBadRequest:
		return fiber.StatusBadRequest
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler centraliza la respuesta de error: los errores de dominio conservan código y
// mensaje; los de fiber (ruta inexistente, método no permitido) usan su status; el resto se
// registra y responde como INTERNAL sin detalles.
func ErrorHandler(log *logger.Logger, m *metrics.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var de *domain.Error
		if errors.As(err, &de) && de.Kind != domain.KindInternal {
			if de.Kind == domain.KindForbidden && m != nil {
				m.RecordDenial(de.Code)
			}
			return c.Status(statusFor(de.Kind)).JSON(dto.ErrorResponse{
				Code:    de.Code,
				Message: de.Message,
				Title:   de.Kind.Title(),
			})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			text := http.StatusText(fe.Code)
			return c.Status(fe.Code).JSON(dto.ErrorResponse{
				Code:    strings.ToUpper(strings.ReplaceAll(text, " ", "_")),
				Message: fe.Message,
				Title:   text,
			})
		}

		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("request_id", requestID(c)).
			Msg("error no controlado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    domain.ErrInternal.Code,
			Message: domain.ErrInternal.Message,
			Title:   domain.KindInternal.Title(),
		})
	}
}
