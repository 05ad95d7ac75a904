package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/application/usecase"
	"github.com/jhoicas/Inventario-tenants/internal/infrastructure/metrics"
)

// ProductHandler maneja productos y su reposición (protegido).
type ProductHandler struct {
	uc       *usecase.ProductUseCase
	restocks *usecase.RestockUseCase
	metrics  *metrics.Metrics
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, restocks *usecase.RestockUseCase, m *metrics.Metrics) *ProductHandler {
	return &ProductHandler{uc: uc, restocks: restocks, metrics: m}
}

// Create godoc
// @Summary      Crear producto
// @Description  El tenant del producto se toma de la bodega.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
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
// @Summary      Listar productos visibles
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        tenant_id     query  int  false  "Filtrar por tenant (system_admin)"
// @Param        warehouse_id  query  int  false  "Filtrar por bodega"
// @Param        limit         query  int  false  "Límite"
// @Param        offset        query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	tenantID, err := int64Query(c, "tenant_id")
	if err != nil {
		return err
	}
	warehouseID, err := int64Query(c, "warehouse_id")
	if err != nil {
		return err
	}
	filter := dto.ProductListFilter{TenantID: tenantID, WarehouseID: warehouseID}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), filter, pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID o UUID"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Actualizar producto
// @Description  Cambiar warehouse_id mueve el producto y recalcula su tenant.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID o UUID"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [patch]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateProductRequest
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
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID o UUID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), ref); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restock godoc
// @Summary      Reponer stock
// @Description  Suma quantity al stock y registra la reposición en el historial.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID o UUID"
// @Param        body  body  dto.RestockRequest  true  "Cantidad y motivo"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/restock [post]
func (h *ProductHandler) Restock(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	var in dto.RestockRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	out, err := h.restocks.Restock(c.UserContext(), GetUserID(c), ref, in)
	if err != nil {
		return err
	}
	if h.metrics != nil {
		h.metrics.RecordRestock(in.Quantity)
	}
	return c.JSON(out)
}

// Restocks godoc
// @Summary      Historial de reposiciones de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID o UUID"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.RestockLogListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/restocks [get]
func (h *ProductHandler) Restocks(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	out, err := h.restocks.History(c.UserContext(), GetUserID(c), ref, pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
