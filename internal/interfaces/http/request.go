package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
)

// bind decodifica el cuerpo JSON de la petición.
func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.BadRequest("Request body is not valid JSON.")
	}
	return nil
}

// refParam interpreta un parámetro de ruta como id numérico o UUID.
func refParam(c *fiber.Ctx, name string) (entity.Ref, error) {
	raw := c.Params(name)
	ref, ok := entity.ParseRef(raw)
	if !ok {
		return entity.Ref{}, domain.BadRequest("Invalid identifier %q: expected a positive integer or a UUID.", raw)
	}
	return ref, nil
}

// pageQuery lee limit/offset; los valores fuera de rango se acotan en el caso de uso.
func pageQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{
		Limit:  c.QueryInt("limit", dto.DefaultLimit),
		Offset: c.QueryInt("offset", 0),
	}
}

// int64Query devuelve nil si el parámetro no viene.
func int64Query(c *fiber.Ctx, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.BadRequest("Query parameter %s must be an integer.", key)
	}
	return &v, nil
}
