package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-tenants/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 10, cfg.DB.ConnectRetries)
	assert.Equal(t, 2*time.Second, cfg.DB.ConnectRetryDelay)
	assert.Equal(t, int64(20), cfg.Analytics.LowStockThreshold)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOW_STOCK_DEFAULT_THRESHOLD", "5")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, int64(5), cfg.Analytics.LowStockThreshold)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
}

func TestValidate(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			App:   config.AppConfig{Env: "production"},
			Store: config.StoreConfig{Driver: config.StoreDriverPostgres},
			JWT:   config.JWTConfig{Secret: "x", Expiration: 60},
		}
	}
	assert.NoError(t, base().Validate())

	noSecret := base()
	noSecret.JWT.Secret = ""
	assert.Error(t, noSecret.Validate(), "sin JWT_SECRET fuera de development")

	dev := base()
	dev.App.Env = "development"
	dev.JWT.Secret = ""
	assert.NoError(t, dev.Validate())

	badDriver := base()
	badDriver.Store.Driver = "sqlite"
	assert.Error(t, badDriver.Validate())
}

func TestDSN_EscapaCaracteresEspeciales(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "inventory", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/inventory?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://u:p@h:1/d"
	assert.Equal(t, "postgres://u:p@h:1/d", c.ConnectionString())
}
