package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/application/usecase"
)

// PermissionHandler permisos de usuario por bodega.
type PermissionHandler struct {
	uc *usecase.PermissionUseCase
}

// NewPermissionHandler construye el handler.
func NewPermissionHandler(uc *usecase.PermissionUseCase) *PermissionHandler {
	return &PermissionHandler{uc: uc}
}

// Create godoc
// @Summary      Conceder permiso de bodega
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePermissionRequest  true  "Usuario, bodega y nivel (view|edit)"
// @Success      201   {object}  dto.PermissionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/permissions [post]
func (h *PermissionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePermissionRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Grant(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar permisos
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Param        user_id       query  int  false  "Filtrar por usuario"
// @Param        warehouse_id  query  int  false  "Filtrar por bodega"
// @Param        limit         query  int  false  "Límite"
// @Param        offset        query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.PermissionListResponse
// @Router       /api/permissions [get]
func (h *PermissionHandler) List(c *fiber.Ctx) error {
	userID, err := int64Query(c, "user_id")
	if err != nil {
		return err
	}
	warehouseID, err := int64Query(c, "warehouse_id")
	if err != nil {
		return err
	}
	filter := dto.PermissionListFilter{UserID: userID, WarehouseID: warehouseID}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), filter, pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener permiso
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID o UUID"
// @Success      200  {object}  dto.PermissionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/permissions/{id} [get]
func (h *PermissionHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Cambiar nivel de acceso
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID o UUID"
// @Param        body  body  dto.UpdatePermissionRequest  true  "Nuevo nivel"
// @Success      200  {object}  dto.PermissionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/permissions/{id} [patch]
func (h *PermissionHandler) Update(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdatePermissionRequest
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
// @Summary      Revocar permiso
// @Tags         permissions
// @Security     Bearer
// @Param        id   path  string  true  "ID o UUID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/permissions/{id} [delete]
func (h *PermissionHandler) Delete(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Revoke(c.UserContext(), GetUserID(c), ref); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
