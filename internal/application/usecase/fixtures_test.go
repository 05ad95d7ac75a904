package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-tenants/internal/domain/authz"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
	"github.com/jhoicas/Inventario-tenants/internal/infrastructure/memory"
)

// fixture datos sembrados directamente en el almacenamiento, sin pasar por autorización.
type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *memory.Store
	engine *authz.Engine
	root   *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{t: t, ctx: context.Background(), store: memory.NewStore(), engine: authz.NewEngine()}
	f.root = f.user(nil, entity.RoleSystemAdmin, "root@example.com")
	return f
}

func (f *fixture) seed(fn func(r repository.Repositories) error) {
	f.t.Helper()
	require.NoError(f.t, f.store.Run(f.ctx, fn))
}

func (f *fixture) tenant(name string) *entity.Tenant {
	now := time.Now()
	t := &entity.Tenant{UUID: newUUID(), Name: name, CreatedAt: now, UpdatedAt: now}
	f.seed(func(r repository.Repositories) error { return r.Tenants.Create(f.ctx, t) })
	return t
}

func (f *fixture) user(tenantID *int64, role entity.Role, email string) *entity.User {
	now := time.Now()
	u := &entity.User{
		UUID:         newUUID(),
		TenantID:     tenantID,
		Name:         email,
		Email:        email,
		Role:         role,
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.seed(func(r repository.Repositories) error { return r.Users.Create(f.ctx, u) })
	return u
}

func (f *fixture) warehouse(tenantID int64, name string) *entity.Warehouse {
	now := time.Now()
	w := &entity.Warehouse{UUID: newUUID(), TenantID: tenantID, Name: name, CreatedAt: now, UpdatedAt: now}
	f.seed(func(r repository.Repositories) error { return r.Warehouses.Create(f.ctx, w) })
	return w
}

func (f *fixture) product(w *entity.Warehouse, sku string, qty int64) *entity.Product {
	now := time.Now()
	p := &entity.Product{
		UUID:        newUUID(),
		TenantID:    w.TenantID,
		WarehouseID: w.ID,
		Name:        "Product " + sku,
		SKU:         sku,
		Quantity:    qty,
		UnitPrice:   decimal.NewFromInt(10),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.seed(func(r repository.Repositories) error { return r.Products.Create(f.ctx, p) })
	return p
}

func (f *fixture) grant(u *entity.User, w *entity.Warehouse, level entity.AccessLevel) *entity.WarehousePermission {
	now := time.Now()
	p := &entity.WarehousePermission{
		UUID:        newUUID(),
		UserID:      u.ID,
		WarehouseID: w.ID,
		TenantID:    w.TenantID,
		AccessLevel: level,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.seed(func(r repository.Repositories) error { return r.Permissions.Create(f.ctx, p) })
	return p
}

// acme tenant con un tenant_admin, un regular_user y una bodega.
type acme struct {
	tenant    *entity.Tenant
	admin     *entity.User
	john      *entity.User
	warehouse *entity.Warehouse
}

func (f *fixture) acme(name string) acme {
	t := f.tenant(name)
	return acme{
		tenant:    t,
		admin:     f.user(&t.ID, entity.RoleTenantAdmin, "admin@"+name+".test"),
		john:      f.user(&t.ID, entity.RoleRegularUser, "john@"+name+".test"),
		warehouse: f.warehouse(t.ID, "Main"),
	}
}

func newUUID() string { return uuid.New().String() }
