package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-tenants/internal/application/auth"
	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/application/usecase"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/infrastructure/metrics"
)

// AuthHandler maneja login y perfil propio.
type AuthHandler struct {
	auth    *auth.AuthUseCase
	users   *usecase.UserUseCase
	metrics *metrics.Metrics
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(authUC *auth.AuthUseCase, users *usecase.UserUseCase, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{auth: authUC, users: users, metrics: m}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	out, err := h.auth.Login(c.UserContext(), in)
	if h.metrics != nil && (err == nil || domain.KindOf(err) == domain.KindUnauthorized) {
		h.metrics.RecordLogin(err == nil)
	}
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.users.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
