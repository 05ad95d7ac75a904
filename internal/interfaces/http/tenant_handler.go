package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/application/usecase"
)

// TenantHandler CRUD de tenants.
type TenantHandler struct {
	uc *usecase.TenantUseCase
}

// NewTenantHandler construye el handler.
func NewTenantHandler(uc *usecase.TenantUseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// Create godoc
// @Summary      Crear tenant
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTenantRequest  true  "Datos del tenant"
// @Success      201   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tenants [post]
func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTenantRequest
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
// @Summary      Listar tenants visibles
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.TenantListResponse
// @Router       /api/tenants [get]
func (h *TenantHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetUserID(c), pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener tenant
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID o UUID"
// @Success      200  {object}  dto.TenantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id} [get]
func (h *TenantHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Actualizar tenant
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID o UUID"
// @Param        body  body  dto.UpdateTenantRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.TenantResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id} [patch]
func (h *TenantHandler) Update(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateTenantRequest
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
// @Summary      Eliminar tenant
// @Tags         tenants
// @Security     Bearer
// @Param        id   path  string  true  "ID o UUID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id} [delete]
func (h *TenantHandler) Delete(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), ref); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
