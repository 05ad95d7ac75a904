package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Inventario-tenants/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Inventario-tenants/pkg/jwt"
	"github.com/jhoicas/Inventario-tenants/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = int64(11)
	testTenantID  = int64(3)
	testIssuer    = "inventario-tenants-test"
	testExpMin    = 60
)

// buildTestApp aplicación mínima: AuthMiddleware + RequireRole + handler que devuelve 200.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop(), nil)})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tenant := testTenantID
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, &tenant, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	code, _ := body["code"].(string)
	return code
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_SystemAdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp("system_admin")
	resp := doRequest(t, app, tokenForRole(t, "system_admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "system_admin", body["role"])
}

func TestRequireRole_VariosRolesPermitidos(t *testing.T) {
	app := buildTestApp("system_admin", "tenant_admin")
	resp := doRequest(t, app, tokenForRole(t, "tenant_admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_RegularUserBloqueado(t *testing.T) {
	app := buildTestApp("system_admin")
	resp := doRequest(t, app, tokenForRole(t, "regular_user"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", bodyCode(t, resp))
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp("system_admin")
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, nil, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", bodyCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_Rechazos(t *testing.T) {
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, nil, "system_admin", testIssuer, -1)
	require.NoError(t, err)
	foreign, err := pkgjwt.Generate("otro-secret", testUserID, nil, "system_admin", testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic abc", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"token expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"secret distinto", "Bearer " + foreign, "INVALID_TOKEN"},
	}
	app := buildTestApp("system_admin")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, tc.header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, bodyCode(t, resp))
		})
	}
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"tenant_id": apphttp.GetTenantID(c),
			"role":      apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "tenant_admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UserID   int64  `json:"user_id"`
		TenantID *int64 `json:"tenant_id"`
		Role     string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	require.NotNil(t, body.TenantID)
	assert.Equal(t, testTenantID, *body.TenantID)
	assert.Equal(t, "tenant_admin", body.Role)
}
