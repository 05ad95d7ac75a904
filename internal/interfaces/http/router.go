package http

import (
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"

	"github.com/jhoicas/Inventario-tenants/docs"
	"github.com/jhoicas/Inventario-tenants/internal/application/auth"
	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/application/usecase"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/infrastructure/metrics"
	"github.com/jhoicas/Inventario-tenants/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	TenantUC     *usecase.TenantUseCase
	UserUC       *usecase.UserUseCase
	WarehouseUC  *usecase.WarehouseUseCase
	ProductUC    *usecase.ProductUseCase
	RestockUC    *usecase.RestockUseCase
	PermissionUC *usecase.PermissionUseCase
	AnalyticsUC  *usecase.AnalyticsUseCase
	JWTSecret    string
	AppName      string
	Logger       *logger.Logger
	Metrics      *metrics.Metrics
	// Swagger monta el UI en /docs.
	Swagger bool
}

// NewApp construye la aplicación fiber con el manejo de errores, los middlewares comunes y las rutas.
func NewApp(deps RouterDeps) *fiber.App {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:               deps.AppName,
		ErrorHandler:          ErrorHandler(deps.Logger, deps.Metrics),
		DisableStartupMessage: true,
	})
	app.Use(RequestID())
	app.Use(Observe(deps.Logger, deps.Metrics))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok"})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	if deps.Swagger {
		app.Use(swagger.New(swagger.Config{
			BasePath:    "/",
			FilePath:    "./docs/swagger.json",
			FileContent: docs.SwaggerJSON,
			Path:        "docs",
			Title:       "Inventario Tenants API",
		}))
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	authMW := AuthMiddleware(deps.JWTSecret)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, deps.Metrics)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", authMW, authHandler.Me)

	// Tenants
	tenantHandler := NewTenantHandler(deps.TenantUC)
	tenants := api.Group("/tenants", authMW)
	tenants.Post("/", tenantHandler.Create)
	tenants.Get("/", tenantHandler.List)
	tenants.Get("/:id", tenantHandler.GetByID)
	tenants.Patch("/:id", tenantHandler.Update)
	tenants.Put("/:id", tenantHandler.Update)
	tenants.Delete("/:id", tenantHandler.Delete)

	// Users
	userHandler := NewUserHandler(deps.UserUC, deps.PermissionUC)
	users := api.Group("/users", authMW)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Get("/:id/permissions", userHandler.Permissions)
	users.Patch("/:id", userHandler.Update)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Warehouses
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.ProductUC)
	warehouses := api.Group("/warehouses", authMW)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Get("/:id/products", warehouseHandler.Products)
	warehouses.Patch("/:id", warehouseHandler.Update)
	warehouses.Put("/:id", warehouseHandler.Update)
	warehouses.Delete("/:id", warehouseHandler.Delete)

	// Products: las rutas fijas van antes de /:id
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC, deps.ProductUC)
	productHandler := NewProductHandler(deps.ProductUC, deps.RestockUC, deps.Metrics)
	products := api.Group("/products", authMW)
	products.Get("/low-stock", analyticsHandler.LowStock)
	products.Get("/low-stock/report.pdf", analyticsHandler.LowStockReport)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", productHandler.Update)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/restock", productHandler.Restock)
	products.Get("/:id/restocks", productHandler.Restocks)

	// Restocks
	restockHandler := NewRestockHandler(deps.RestockUC)
	api.Get("/restocks", authMW, restockHandler.List)

	// Analytics
	api.Get("/analytics/stock-trend", authMW, analyticsHandler.StockTrend)
	api.Get("/analytics/summary", authMW, analyticsHandler.Summary)

	// Permissions
	permissionHandler := NewPermissionHandler(deps.PermissionUC)
	permissions := api.Group("/permissions", authMW)
	permissions.Post("/", permissionHandler.Create)
	permissions.Get("/", permissionHandler.List)
	permissions.Get("/:id", permissionHandler.GetByID)
	permissions.Patch("/:id", permissionHandler.Update)
	permissions.Put("/:id", permissionHandler.Update)
	permissions.Delete("/:id", permissionHandler.Delete)

	// Admin
	admin := api.Group("/admin", authMW, RequireRole(entity.RoleSystemAdmin.String()))
	admin.Get("/consistency", analyticsHandler.Consistency)
}
