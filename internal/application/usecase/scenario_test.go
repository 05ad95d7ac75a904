package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
)

// Flujo completo: tenant -> tenant_admin -> bodega -> regular_user -> permiso -> producto -> reposición.
func TestScenario_TenantOnboardingToRestock(t *testing.T) {
	f := newFixture(t)
	tenants := NewTenantUseCase(f.store, f.engine)
	users := NewUserUseCase(f.store, f.engine)
	warehouses := NewWarehouseUseCase(f.store, f.engine)
	perms := NewPermissionUseCase(f.store, f.engine)
	products := NewProductUseCase(f.store, f.engine)
	restocks := NewRestockUseCase(f.store, f.engine)

	tenant, err := tenants.Create(f.ctx, f.root.ID, dto.CreateTenantRequest{Name: "Acme"})
	require.NoError(t, err)

	admin, err := users.Create(f.ctx, f.root.ID, dto.CreateUserRequest{
		Name: "Alice", Email: "alice@acme.test", Password: "alice-pass", Role: "tenant_admin", TenantID: &tenant.ID,
	})
	require.NoError(t, err)

	main, err := warehouses.Create(f.ctx, admin.ID, dto.CreateWarehouseRequest{Name: "Main"})
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, main.TenantID)

	john, err := users.Create(f.ctx, admin.ID, dto.CreateUserRequest{
		Name: "John", Email: "john@acme.test", Password: "john-pass", Role: "regular_user",
	})
	require.NoError(t, err)

	_, err = perms.Grant(f.ctx, admin.ID, dto.CreatePermissionRequest{UserID: john.ID, WarehouseID: main.ID, AccessLevel: "edit"})
	require.NoError(t, err)

	product, err := products.Create(f.ctx, john.ID, dto.CreateProductRequest{
		WarehouseID: main.ID, Name: "Widget A", SKU: "WGT-A-001", Quantity: 100, UnitPrice: decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, product.TenantID)

	restocked, err := restocks.Restock(f.ctx, john.ID, entity.RefID(product.ID), dto.RestockRequest{Quantity: 25, Reason: "weekly"})
	require.NoError(t, err)
	assert.Equal(t, int64(125), restocked.Quantity)

	got, err := products.Get(f.ctx, john.ID, entity.RefID(product.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(125), got.Quantity)

	history, err := restocks.History(f.ctx, john.ID, entity.RefID(product.ID), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, history.Items, 1)
	assert.Equal(t, int64(25), history.Items[0].Quantity)
	assert.Equal(t, "weekly", history.Items[0].Reason)
}
