package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/application/usecase"
)

// WarehouseHandler maneja las peticiones HTTP para Warehouse (protegido).
type WarehouseHandler struct {
	uc       *usecase.WarehouseUseCase
	products *usecase.ProductUseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *usecase.WarehouseUseCase, products *usecase.ProductUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc, products: products}
}

// Create godoc
// @Summary      Crear bodega
// @Description  tenant_id solo lo envía un system_admin; el resto crea en su propio tenant.
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWarehouseRequest  true  "Datos de la bodega"
// @Success      201   {object}  dto.WarehouseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/warehouses [post]
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar bodegas visibles
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        tenant_id  query  int  false  "Filtrar por tenant (system_admin)"
// @Param        limit      query  int  false  "Límite"
// @Param        offset     query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.WarehouseListResponse
// @Router       /api/warehouses [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
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

// GetByID godoc
// @Summary      Obtener bodega por ID
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID o UUID de la bodega"
// @Success      200  {object}  dto.WarehouseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), ref)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar bodega
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID o UUID"
// @Param        body  body  dto.UpdateWarehouseRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.WarehouseResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [patch]
func (h *WarehouseHandler) Update(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateWarehouseRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), ref, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar bodega
// @Tags         warehouses
// @Security     Bearer
// @Param        id   path  string  true  "ID o UUID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [delete]
func (h *WarehouseHandler) Delete(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), ref); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Products godoc
// @Summary      Productos de una bodega
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID o UUID"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/products [get]
func (h *WarehouseHandler) Products(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	out, err := h.products.ListByWarehouse(c.UserContext(), GetUserID(c), ref, pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
