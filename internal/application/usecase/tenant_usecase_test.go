package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
)

func TestTenantUseCase_CreateAndConflict(t *testing.T) {
	f := newFixture(t)
	uc := NewTenantUseCase(f.store, f.engine)

	out, err := uc.Create(f.ctx, f.root.ID, dto.CreateTenantRequest{Name: "  Acme  ", ContactEmail: "ops@acme.test"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", out.Name)
	assert.NotEmpty(t, out.UUID)

	_, err = uc.Create(f.ctx, f.root.ID, dto.CreateTenantRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.TenantNameAlreadyExist("Acme"))
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	_, err = uc.Create(f.ctx, f.root.ID, dto.CreateTenantRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestTenantUseCase_RoleRules(t *testing.T) {
	f := newFixture(t)
	uc := NewTenantUseCase(f.store, f.engine)
	a := f.acme("acme")
	b := f.acme("globex")

	_, err := uc.Create(f.ctx, a.admin.ID, dto.CreateTenantRequest{Name: "Initech"})
	assert.ErrorIs(t, err, domain.Forbidden("TenantAdminCannotManageTenants", ""))

	got, err := uc.Get(f.ctx, a.admin.ID, entity.RefID(a.tenant.ID))
	require.NoError(t, err)
	assert.Equal(t, a.tenant.ID, got.ID)

	_, err = uc.Get(f.ctx, a.admin.ID, entity.RefID(b.tenant.ID))
	assert.ErrorIs(t, err, domain.CrossTenantOperationForbidden())

	_, err = uc.Get(f.ctx, a.john.ID, entity.RefID(b.tenant.ID))
	assert.ErrorIs(t, err, domain.TenantNotFound(b.tenant.ID))

	name := "Acme Corp"
	updated, err := uc.Update(f.ctx, a.admin.ID, entity.RefID(a.tenant.ID), dto.UpdateTenantRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	_, err = uc.Update(f.ctx, a.john.ID, entity.RefID(a.tenant.ID), dto.UpdateTenantRequest{Name: &name})
	assert.ErrorIs(t, err, domain.Forbidden("RegularUserCannotManageTenants", ""))

	err = uc.Delete(f.ctx, a.admin.ID, entity.RefID(a.tenant.ID))
	assert.ErrorIs(t, err, domain.Forbidden("TenantAdminCannotManageTenants", ""))
}

func TestTenantUseCase_ListIsScoped(t *testing.T) {
	f := newFixture(t)
	uc := NewTenantUseCase(f.store, f.engine)
	a := f.acme("acme")
	f.acme("globex")

	all, err := uc.List(f.ctx, f.root.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, dto.DefaultLimit, all.Page.Limit)

	own, err := uc.List(f.ctx, a.john.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, own.Items, 1)
	assert.Equal(t, a.tenant.ID, own.Items[0].ID)
}

func TestTenantUseCase_Delete(t *testing.T) {
	f := newFixture(t)
	uc := NewTenantUseCase(f.store, f.engine)
	a := f.acme("acme")
	empty := f.tenant("empty")

	err := uc.Delete(f.ctx, f.root.ID, entity.RefID(a.tenant.ID))
	assert.ErrorIs(t, err, domain.TenantHasDependents(a.tenant.ID))

	require.NoError(t, uc.Delete(f.ctx, f.root.ID, entity.Ref{UUID: empty.UUID}))
	_, err = uc.Get(f.ctx, f.root.ID, entity.RefID(empty.ID))
	assert.ErrorIs(t, err, domain.TenantNotFound(empty.ID))
}

func TestService_UnknownActor(t *testing.T) {
	f := newFixture(t)
	uc := NewTenantUseCase(f.store, f.engine)

	_, err := uc.List(f.ctx, 9999, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
