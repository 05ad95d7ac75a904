package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/pkg/jwt"
)

// Locals keys con la identidad del token.
const (
	LocalUserID   = "user_id"
	LocalTenantID = "tenant_id"
	LocalRole     = "role"
)

func authError(code, message string) *domain.Error {
	return &domain.Error{Kind: domain.KindUnauthorized, Code: code, Message: message}
}

// AuthMiddleware valida el Bearer Token JWT y guarda user_id, tenant_id y role en c.Locals.
// El rol del token es solo una pista: los casos de uso recargan al usuario en cada operación.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return authError("MISSING_TOKEN", "Authorization header is required.")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return authError("INVALID_TOKEN", "Authorization header must have the form: Bearer <token>.")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return authError("MISSING_TOKEN", "Bearer token is empty.")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return authError("INVALID_TOKEN", "Token is invalid or expired.")
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalTenantID, claims.TenantID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole corta la petición si el rol del token no está entre los permitidos.
// Es un filtro grueso de ruta; la decisión fina la toma el motor de autorización.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return authError("MISSING_ROLE", "Token does not carry a role.")
		}
		if !allowed[role] {
			return domain.Forbidden("FORBIDDEN", "Role %s is not allowed to access this resource.", role)
		}
		return c.Next()
	}
}

// GetUserID devuelve el id del usuario autenticado (0 si no hay token).
func GetUserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalUserID).(int64)
	return id
}

// GetTenantID devuelve el tenant del token (nil para system_admin).
func GetTenantID(c *fiber.Ctx) *int64 {
	id, _ := c.Locals(LocalTenantID).(*int64)
	return id
}

// GetRole devuelve el rol declarado en el token.
func GetRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalRole).(string)
	return role
}
