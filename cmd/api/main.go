package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/Inventario-tenants/internal/application/auth"
	"github.com/jhoicas/Inventario-tenants/internal/application/usecase"
	"github.com/jhoicas/Inventario-tenants/internal/domain/authz"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
	"github.com/jhoicas/Inventario-tenants/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-tenants/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Inventario-tenants/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-tenants/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-tenants/internal/infrastructure/trend"
	httpRouter "github.com/jhoicas/Inventario-tenants/internal/interfaces/http"
	"github.com/jhoicas/Inventario-tenants/pkg/config"
	"github.com/jhoicas/Inventario-tenants/pkg/logger"
)

// devJWTSecret solo se usa en development cuando JWT_SECRET no está definido.
const devJWTSecret = "development-only-secret"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer closeStore()

	secret := cfg.JWT.Secret
	if secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: usando secreto de desarrollo")
		secret = devJWTSecret
	}

	engine := authz.NewEngine()
	app := httpRouter.NewApp(httpRouter.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store, auth.JWTConfig{
			Secret:     secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		TenantUC:     usecase.NewTenantUseCase(store, engine),
		UserUC:       usecase.NewUserUseCase(store, engine),
		WarehouseUC:  usecase.NewWarehouseUseCase(store, engine),
		ProductUC:    usecase.NewProductUseCase(store, engine),
		RestockUC:    usecase.NewRestockUseCase(store, engine),
		PermissionUC: usecase.NewPermissionUseCase(store, engine),
		AnalyticsUC: usecase.NewAnalyticsUseCase(store, engine,
			trend.NewRandomWalk(time.Now().UnixNano()),
			infrapdf.NewLowStockReport(cfg.App.Name),
			cfg.Analytics.LowStockThreshold,
		),
		JWTSecret: secret,
		AppName:   cfg.App.Name,
		Logger:    log,
		Metrics:   metrics.New(cfg.Metrics.Prefix),
		Swagger:   true,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStore abre el almacenamiento según STORE_DRIVER. Con postgres aplica las migraciones pendientes.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.TxRunner, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return memory.NewStore(), func() {}, nil
	case config.StoreDriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.DB, log)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migraciones: %w", err)
		}
		return postgres.NewTxRunner(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("STORE_DRIVER desconocido %q", cfg.Store.Driver)
	}
}
