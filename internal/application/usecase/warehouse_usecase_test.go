package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

func TestWarehouseUseCase_Create(t *testing.T) {
	f := newFixture(t)
	uc := NewWarehouseUseCase(f.store, f.engine)
	a := f.acme("acme")
	b := f.acme("globex")

	out, err := uc.Create(f.ctx, a.admin.ID, dto.CreateWarehouseRequest{Name: "North", Capacity: 500})
	require.NoError(t, err)
	assert.Equal(t, a.tenant.ID, out.TenantID)

	_, err = uc.Create(f.ctx, a.admin.ID, dto.CreateWarehouseRequest{Name: "Foreign", TenantID: &b.tenant.ID})
	assert.ErrorIs(t, err, domain.CrossTenantOperationForbidden())

	_, err = uc.Create(f.ctx, a.john.ID, dto.CreateWarehouseRequest{Name: "Mine"})
	assert.ErrorIs(t, err, domain.Forbidden("RegularUserCannotManageWarehouses", ""))

	_, err = uc.Create(f.ctx, f.root.ID, dto.CreateWarehouseRequest{Name: "Nowhere"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	created, err := uc.Create(f.ctx, f.root.ID, dto.CreateWarehouseRequest{Name: "South", TenantID: &b.tenant.ID})
	require.NoError(t, err)
	assert.Equal(t, b.tenant.ID, created.TenantID)

	_, err = uc.Create(f.ctx, a.admin.ID, dto.CreateWarehouseRequest{Name: "Neg", Capacity: -1})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestWarehouseUseCase_RegularUserVisibility(t *testing.T) {
	f := newFixture(t)
	uc := NewWarehouseUseCase(f.store, f.engine)
	a := f.acme("acme")
	hidden := f.warehouse(a.tenant.ID, "Hidden")
	f.grant(a.john, a.warehouse, entity.AccessView)

	got, err := uc.Get(f.ctx, a.john.ID, entity.RefID(a.warehouse.ID))
	require.NoError(t, err)
	assert.Equal(t, "Main", got.Name)

	_, err = uc.Get(f.ctx, a.john.ID, entity.RefID(hidden.ID))
	assert.ErrorIs(t, err, domain.WarehouseNotFound(hidden.ID))

	list, err := uc.List(f.ctx, a.john.ID, nil, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, a.warehouse.ID, list.Items[0].ID)

	all, err := uc.List(f.ctx, a.admin.ID, nil, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	_, err = uc.Update(f.ctx, a.john.ID, entity.RefID(a.warehouse.ID), dto.UpdateWarehouseRequest{Name: strPtr("Renamed")})
	assert.ErrorIs(t, err, domain.Forbidden("RegularUserCannotManageWarehouses", ""))
}

func TestWarehouseUseCase_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	uc := NewWarehouseUseCase(f.store, f.engine)
	a := f.acme("acme")
	b := f.acme("globex")
	f.grant(a.john, a.warehouse, entity.AccessEdit)

	out, err := uc.Update(f.ctx, a.admin.ID, entity.RefID(a.warehouse.ID), dto.UpdateWarehouseRequest{Location: strPtr("Dock 4")})
	require.NoError(t, err)
	assert.Equal(t, "Dock 4", out.Location)
	assert.Equal(t, "Main", out.Name)

	_, err = uc.Update(f.ctx, a.admin.ID, entity.RefID(b.warehouse.ID), dto.UpdateWarehouseRequest{Location: strPtr("x")})
	assert.ErrorIs(t, err, domain.CrossTenantOperationForbidden())

	p := f.product(a.warehouse, "SKU-1", 1)
	err = uc.Delete(f.ctx, a.admin.ID, entity.RefID(a.warehouse.ID))
	assert.ErrorIs(t, err, domain.WarehouseHasProducts(a.warehouse.ID))

	f.seed(func(r repository.Repositories) error { return r.Products.Delete(f.ctx, p.ID) })
	require.NoError(t, uc.Delete(f.ctx, a.admin.ID, entity.RefID(a.warehouse.ID)))

	f.seed(func(r repository.Repositories) error {
		perms, err := r.Permissions.ListByUser(f.ctx, a.john.ID)
		assert.Empty(t, perms)
		return err
	})
}
