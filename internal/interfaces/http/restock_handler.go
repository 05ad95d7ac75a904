package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-tenants/internal/application/usecase"
)

// RestockHandler historial global de reposiciones.
type RestockHandler struct {
	uc *usecase.RestockUseCase
}

func NewRestockHandler(uc *usecase.RestockUseCase) *RestockHandler {
	return &RestockHandler{uc: uc}
}

// List godoc
// @Summary      Listar reposiciones visibles
// @Tags         restocks
// @Security     Bearer
// @Produce      json
// @Param        tenant_id  query  int  false  "Filtrar por tenant (system_admin)"
// @Param        limit      query  int  false  "Límite"
// @Param        offset     query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.RestockLogListResponse
// @Router       /api/restocks [get]
func (h *RestockHandler) List(c *fiber.Ctx) error {
	tenantID, err := int64Query(c, "tenant_id")
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), tenantID, pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
