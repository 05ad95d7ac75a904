package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/Inventario-tenants/internal/application/auth"
	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/application/usecase"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/authz"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
	"github.com/jhoicas/Inventario-tenants/pkg/logger"
)

const demoTenant = "Acme"

func newBootstrapCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the first system admin and, with --demo, the Acme demo tenant",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return v.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, log, err := openPostgres(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			rootID, err := ensureSystemAdmin(cmd.Context(), store, v.GetString("admin-email"), v.GetString("admin-password"), log)
			if err != nil {
				return err
			}
			if !v.GetBool("demo") {
				return nil
			}
			return seedDemo(cmd.Context(), store, rootID, v.GetString("admin-password"), log)
		},
	}
	cmd.Flags().String("admin-email", "root@example.com", "system admin email (env SEED_ADMIN_EMAIL)")
	cmd.Flags().String("admin-password", "", "system admin password (env SEED_ADMIN_PASSWORD)")
	cmd.Flags().Bool("demo", false, "create the Acme demo tenant with an admin and a warehouse")
	return cmd
}

// ensureSystemAdmin crea el system_admin si no existe. Es idempotente.
func ensureSystemAdmin(ctx context.Context, store repository.TxRunner, email, password string, log *logger.Logger) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return 0, fmt.Errorf("admin-email es obligatorio")
	}
	var id int64
	err := store.Run(ctx, func(r repository.Repositories) error {
		existing, err := r.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			if !existing.IsSystemAdmin() {
				return fmt.Errorf("el usuario %s existe y no es system_admin", email)
			}
			id = existing.ID
			log.Info().Str("email", email).Msg("system_admin ya existe")
			return nil
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		now := time.Now()
		admin := &entity.User{
			UUID:         uuid.New().String(),
			Name:         "System Admin",
			Email:        email,
			Role:         entity.RoleSystemAdmin,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := r.Users.Create(ctx, admin); err != nil {
			return err
		}
		id = admin.ID
		log.Info().Str("email", email).Int64("user_id", id).Msg("system_admin creado")
		return nil
	})
	return id, err
}

// seedDemo crea el tenant Acme con su tenant_admin y la bodega Main, actuando como system_admin
// para que pase por las mismas validaciones que la API.
func seedDemo(ctx context.Context, store repository.TxRunner, rootID int64, password string, log *logger.Logger) error {
	engine := authz.NewEngine()
	tenants := usecase.NewTenantUseCase(store, engine)
	users := usecase.NewUserUseCase(store, engine)
	warehouses := usecase.NewWarehouseUseCase(store, engine)

	tenant, err := tenants.Create(ctx, rootID, dto.CreateTenantRequest{Name: demoTenant, ContactEmail: "ops@acme.com"})
	if errors.Is(err, domain.TenantNameAlreadyExist(demoTenant)) {
		log.Info().Str("tenant", demoTenant).Msg("tenant demo ya existe")
		return nil
	}
	if err != nil {
		return err
	}
	admin, err := users.Create(ctx, rootID, dto.CreateUserRequest{
		Name:     "Acme Admin",
		Email:    "admin@acme.com",
		Password: password,
		Role:     entity.RoleTenantAdmin.String(),
		TenantID: &tenant.ID,
	})
	if err != nil {
		return err
	}
	warehouse, err := warehouses.Create(ctx, rootID, dto.CreateWarehouseRequest{
		Name:     "Main",
		Location: "Headquarters",
		Capacity: 10000,
		TenantID: &tenant.ID,
	})
	if err != nil {
		return err
	}
	log.Info().
		Int64("tenant_id", tenant.ID).
		Int64("tenant_admin_id", admin.ID).
		Int64("warehouse_id", warehouse.ID).
		Msg("tenant demo creado")
	return nil
}
