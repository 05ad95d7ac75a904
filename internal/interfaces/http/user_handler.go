package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/application/usecase"
)

// UserHandler CRUD de usuarios y sus permisos de bodega.
type UserHandler struct {
	uc          *usecase.UserUseCase
	permissions *usecase.PermissionUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase, permissions *usecase.PermissionUseCase) *UserHandler {
	return &UserHandler{uc: uc, permissions: permissions}
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
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
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        tenant_id  query  int     false  "Filtrar por tenant"
// @Param        role       query  string  false  "Filtrar por rol"
// @Param        limit      query  int     false  "Límite"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.UserListResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	tenantID, err := int64Query(c, "tenant_id")
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), tenantID, c.Query("role"), pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID o UUID"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Actualizar usuario
// @Description  Un regular_user solo puede cambiar name, email, phone y password de su propio perfil.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID o UUID"
// @Param        body  body  dto.UpdateUserRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [patch]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateUserRequest
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
// @Summary      Eliminar usuario
// @Tags         users
// @Security     Bearer
// @Param        id   path  string  true  "ID o UUID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), ref); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Permissions godoc
// @Summary      Permisos de bodega de un usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID o UUID"
// @Success      200  {object}  dto.PermissionListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/permissions [get]
func (h *UserHandler) Permissions(c *fiber.Ctx) error {
	ref, err := refParam(c, "id")
	if err != nil {
		return err
	}
	out, err := h.permissions.ListForUser(c.UserContext(), GetUserID(c), ref)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
