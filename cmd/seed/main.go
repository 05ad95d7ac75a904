// seed prepara una base recién migrada: crea el primer system_admin, opcionalmente un tenant de
// demostración, e importa catálogos de productos desde CSV.
//
// Uso:
//
//	go run ./cmd/seed bootstrap --admin-email root@example.com --admin-password ... [--demo]
//	go run ./cmd/seed import-products --warehouse-id 1 --encoding latin1 catalogo.csv
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
	"github.com/jhoicas/Inventario-tenants/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-tenants/pkg/config"
	"github.com/jhoicas/Inventario-tenants/pkg/logger"
)

func main() {
	v := viper.New()
	v.SetEnvPrefix("SEED")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "seed",
		Short:         "Bootstrap data for the inventory API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBootstrapCommand(v), newImportCommand(v))

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

// openPostgres conecta y migra; el seed solo tiene sentido sobre almacenamiento persistente.
func openPostgres(ctx context.Context) (repository.TxRunner, func(), *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})
	if cfg.Store.Driver != config.StoreDriverPostgres {
		return nil, nil, nil, fmt.Errorf("seed requiere STORE_DRIVER=postgres (actual %q)", cfg.Store.Driver)
	}
	pool, err := postgres.Connect(ctx, cfg.DB, log)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("migraciones: %w", err)
	}
	return postgres.NewTxRunner(pool), pool.Close, log, nil
}
