package memory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
	"github.com/jhoicas/Inventario-tenants/internal/infrastructure/memory"
)

// seedProduct crea tenant, bodega y producto y devuelve el producto.
func seedProduct(t *testing.T, s *memory.Store, tenantName, sku string, qty int64) *entity.Product {
	t.Helper()
	var product *entity.Product
	err := s.Run(context.Background(), func(r repository.Repositories) error {
		tenant, err := r.Tenants.GetByName(context.Background(), tenantName)
		if err != nil {
			return err
		}
		if tenant == nil {
			tenant = &entity.Tenant{UUID: tenantName, Name: tenantName}
			if err := r.Tenants.Create(context.Background(), tenant); err != nil {
				return err
			}
		}
		wh := &entity.Warehouse{UUID: sku + "-wh", TenantID: tenant.ID, Name: "Main"}
		if err := r.Warehouses.Create(context.Background(), wh); err != nil {
			return err
		}
		product = &entity.Product{UUID: sku, TenantID: tenant.ID, WarehouseID: wh.ID, Name: "Widget", SKU: sku, Quantity: qty}
		return r.Products.Create(context.Background(), product)
	})
	require.NoError(t, err)
	return product
}

func TestRun_RollbackDescartaCambios(t *testing.T) {
	s := memory.NewStore()
	boom := errors.New("boom")
	err := s.Run(context.Background(), func(r repository.Repositories) error {
		require.NoError(t, r.Tenants.Create(context.Background(), &entity.Tenant{Name: "Acme"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_ = s.Run(context.Background(), func(r repository.Repositories) error {
		tenant, err := r.Tenants.GetByName(context.Background(), "Acme")
		require.NoError(t, err)
		assert.Nil(t, tenant, "la transacción fallida no debe publicar el tenant")
		return nil
	})
}

func TestRun_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := memory.NewStore().Run(ctx, func(repository.Repositories) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProductRepo_SKUUnicoPorTenant(t *testing.T) {
	s := memory.NewStore()
	first := seedProduct(t, s, "Acme", "X", 1)

	err := s.Run(context.Background(), func(r repository.Repositories) error {
		return r.Products.Create(context.Background(), &entity.Product{TenantID: first.TenantID, WarehouseID: first.WarehouseID, SKU: "X"})
	})
	assert.True(t, errors.Is(err, domain.ProductSKUAlreadyExist("X")))
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	other := seedProduct(t, s, "Globex", "X", 1)
	assert.NotEqual(t, first.TenantID, other.TenantID)
}

func TestUserRepo_EmailUnicoSinMayusculas(t *testing.T) {
	s := memory.NewStore()
	err := s.Run(context.Background(), func(r repository.Repositories) error {
		if err := r.Users.Create(context.Background(), &entity.User{Email: "john@acme.test", Role: entity.RoleSystemAdmin}); err != nil {
			return err
		}
		return r.Users.Create(context.Background(), &entity.User{Email: "JOHN@acme.test", Role: entity.RoleSystemAdmin})
	})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestPermissionRepo_ParUnico(t *testing.T) {
	s := memory.NewStore()
	err := s.Run(context.Background(), func(r repository.Repositories) error {
		if err := r.Permissions.Create(context.Background(), &entity.WarehousePermission{UserID: 1, WarehouseID: 2, AccessLevel: entity.AccessView}); err != nil {
			return err
		}
		return r.Permissions.Create(context.Background(), &entity.WarehousePermission{UserID: 1, WarehouseID: 2, AccessLevel: entity.AccessEdit})
	})
	assert.True(t, errors.Is(err, domain.WarehousePermissionAlreadyExist(1, 2)))
}

func TestGet_PorIDYPorUUID(t *testing.T) {
	s := memory.NewStore()
	p := seedProduct(t, s, "Acme", "SKU-1", 3)
	_ = s.Run(context.Background(), func(r repository.Repositories) error {
		byID, err := r.Products.Get(context.Background(), entity.RefID(p.ID))
		require.NoError(t, err)
		byUUID, err := r.Products.Get(context.Background(), entity.Ref{UUID: p.UUID})
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, byID, byUUID)

		missing, err := r.Products.Get(context.Background(), entity.RefID(999))
		require.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	})
}

func TestList_Paginacion(t *testing.T) {
	s := memory.NewStore()
	for _, sku := range []string{"A", "B", "C"} {
		seedProduct(t, s, "Acme", sku, 1)
	}
	_ = s.Run(context.Background(), func(r repository.Repositories) error {
		page, err := r.Products.List(context.Background(), repository.ProductFilter{Page: repository.Page{Limit: 2, Offset: 1}})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "B", page[0].SKU)
		assert.Equal(t, "C", page[1].SKU)

		empty, err := r.Products.List(context.Background(), repository.ProductFilter{RestrictWarehouses: true})
		require.NoError(t, err)
		assert.Empty(t, empty)
		return nil
	})
}

// Las transacciones concurrentes se serializan: ningún incremento se pierde.
func TestIncrementQuantity_Concurrente(t *testing.T) {
	s := memory.NewStore()
	p := seedProduct(t, s, "Acme", "WGT", 100)

	var wg sync.WaitGroup
	for _, delta := range []int64{10, 5} {
		wg.Add(1)
		go func(delta int64) {
			defer wg.Done()
			err := s.Run(context.Background(), func(r repository.Repositories) error {
				locked, err := r.Products.GetForUpdate(context.Background(), entity.RefID(p.ID))
				if err != nil {
					return err
				}
				if _, err := r.Products.IncrementQuantity(context.Background(), locked.ID, delta); err != nil {
					return err
				}
				return r.Restocks.Create(context.Background(), &entity.RestockLog{ProductID: locked.ID, Quantity: delta})
			})
			assert.NoError(t, err)
		}(delta)
	}
	wg.Wait()

	_ = s.Run(context.Background(), func(r repository.Repositories) error {
		got, err := r.Products.Get(context.Background(), entity.RefID(p.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(115), got.Quantity)
		n, err := r.Restocks.CountByProduct(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		return nil
	})
}

func TestIncrementQuantity_DesbordeNoModificaCantidad(t *testing.T) {
	s := memory.NewStore()
	p := seedProduct(t, s, "Acme", "MAX", 100)

	err := s.Run(context.Background(), func(r repository.Repositories) error {
		_, err := r.Products.IncrementQuantity(context.Background(), p.ID, math.MaxInt64)
		return err
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))

	_ = s.Run(context.Background(), func(r repository.Repositories) error {
		got, err := r.Products.Get(context.Background(), entity.RefID(p.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(100), got.Quantity)
		return nil
	})
}

func TestListTenantMismatches(t *testing.T) {
	s := memory.NewStore()
	p := seedProduct(t, s, "Acme", "SKU-1", 1)
	seedProduct(t, s, "Acme", "SKU-2", 1)
	_ = s.Run(context.Background(), func(r repository.Repositories) error {
		p.TenantID = 42
		require.NoError(t, r.Products.Update(context.Background(), p))
		list, err := r.Products.ListTenantMismatches(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, p.ID, list[0].ID)
		return nil
	})
}
