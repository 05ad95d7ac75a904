package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

func productReq(w *entity.Warehouse, sku string, qty int64) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		WarehouseID: w.ID,
		Name:        "Widget " + sku,
		SKU:         sku,
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString("9.99"),
	}
}

func TestProductUseCase_SKUUniquePerTenant(t *testing.T) {
	f := newFixture(t)
	uc := NewProductUseCase(f.store, f.engine)
	a := f.acme("acme")
	b := f.acme("globex")

	first, err := uc.Create(f.ctx, a.admin.ID, productReq(a.warehouse, "X", 1))
	require.NoError(t, err)
	assert.Equal(t, a.tenant.ID, first.TenantID)

	other := f.warehouse(a.tenant.ID, "Other")
	_, err = uc.Create(f.ctx, a.admin.ID, productReq(other, "X", 1))
	assert.ErrorIs(t, err, domain.ProductSKUAlreadyExist("X"))
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	second, err := uc.Create(f.ctx, b.admin.ID, productReq(b.warehouse, "X", 1))
	require.NoError(t, err)
	assert.Equal(t, b.tenant.ID, second.TenantID)
}

func TestProductUseCase_TenantDerivedFromWarehouse(t *testing.T) {
	f := newFixture(t)
	uc := NewProductUseCase(f.store, f.engine)
	b := f.acme("globex")

	out, err := uc.Create(f.ctx, f.root.ID, productReq(b.warehouse, "ROOT-1", 3))
	require.NoError(t, err)
	assert.Equal(t, b.tenant.ID, out.TenantID)
	assert.Equal(t, b.warehouse.ID, out.WarehouseID)
}

func TestProductUseCase_Validation(t *testing.T) {
	f := newFixture(t)
	uc := NewProductUseCase(f.store, f.engine)
	a := f.acme("acme")

	req := productReq(a.warehouse, "NEG", -1)
	_, err := uc.Create(f.ctx, a.admin.ID, req)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	req = productReq(a.warehouse, "PRICE", 1)
	req.UnitPrice = decimal.NewFromInt(-1)
	_, err = uc.Create(f.ctx, a.admin.ID, req)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	req = productReq(a.warehouse, "", 1)
	_, err = uc.Create(f.ctx, a.admin.ID, req)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	req = productReq(a.warehouse, "HUGE", 1)
	req.UnitPrice = decimal.New(1, 12)
	_, err = uc.Create(f.ctx, a.admin.ID, req)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	req.UnitPrice = decimal.RequireFromString("999999999999.999")
	_, err = uc.Create(f.ctx, a.admin.ID, req)
	assert.ErrorIs(t, err, domain.ErrBadRequest, "redondea a 10^12")

	req.UnitPrice = decimal.RequireFromString("999999999999.99")
	created, err := uc.Create(f.ctx, a.admin.ID, req)
	require.NoError(t, err)

	huge := decimal.New(5, 13)
	_, err = uc.Update(f.ctx, a.admin.ID, entity.RefID(created.ID), dto.UpdateProductRequest{UnitPrice: &huge})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	req = productReq(&entity.Warehouse{ID: 999}, "LOST", 1)
	_, err = uc.Create(f.ctx, a.admin.ID, req)
	assert.ErrorIs(t, err, domain.WarehouseNotFound(999))
}

func TestProductUseCase_RegularUserAccessLevels(t *testing.T) {
	f := newFixture(t)
	uc := NewProductUseCase(f.store, f.engine)
	a := f.acme("acme")
	viewOnly := f.warehouse(a.tenant.ID, "ViewOnly")
	noAccess := f.warehouse(a.tenant.ID, "NoAccess")
	f.grant(a.john, a.warehouse, entity.AccessEdit)
	f.grant(a.john, viewOnly, entity.AccessView)
	visible := f.product(viewOnly, "V-1", 5)
	hidden := f.product(noAccess, "H-1", 5)

	_, err := uc.Create(f.ctx, a.john.ID, productReq(a.warehouse, "E-1", 1))
	require.NoError(t, err)

	_, err = uc.Create(f.ctx, a.john.ID, productReq(viewOnly, "E-2", 1))
	assert.ErrorIs(t, err, domain.Forbidden("WarehouseEditPermissionRequired", ""))

	_, err = uc.Create(f.ctx, a.john.ID, productReq(noAccess, "E-3", 1))
	assert.ErrorIs(t, err, domain.WarehouseNotFound(noAccess.ID))

	got, err := uc.Get(f.ctx, a.john.ID, entity.RefID(visible.ID))
	require.NoError(t, err)
	assert.Equal(t, "V-1", got.SKU)

	_, err = uc.Get(f.ctx, a.john.ID, entity.RefID(hidden.ID))
	assert.ErrorIs(t, err, domain.ProductNotFound(hidden.ID))

	_, err = uc.Update(f.ctx, a.john.ID, entity.RefID(visible.ID), dto.UpdateProductRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.Forbidden("WarehouseEditPermissionRequired", ""))

	list, err := uc.List(f.ctx, a.john.ID, dto.ProductListFilter{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	only, err := uc.List(f.ctx, a.john.ID, dto.ProductListFilter{WarehouseID: &noAccess.ID}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, only.Items)

	byWarehouse, err := uc.ListByWarehouse(f.ctx, a.john.ID, entity.RefID(viewOnly.ID), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, byWarehouse.Items, 1)

	_, err = uc.ListByWarehouse(f.ctx, a.john.ID, entity.RefID(noAccess.ID), dto.PageRequest{})
	assert.ErrorIs(t, err, domain.WarehouseNotFound(noAccess.ID))
}

func TestProductUseCase_NegativeScenarioForeignWarehouse(t *testing.T) {
	f := newFixture(t)
	uc := NewProductUseCase(f.store, f.engine)
	a := f.acme("acme")
	b := f.acme("globex")

	_, err := uc.Create(f.ctx, a.john.ID, productReq(b.warehouse, "WGT-A-001", 100))
	assert.ErrorIs(t, err, domain.WarehouseNotFound(b.warehouse.ID))

	_, err = uc.Create(f.ctx, a.admin.ID, productReq(b.warehouse, "WGT-A-001", 100))
	assert.ErrorIs(t, err, domain.CrossTenantOperationForbidden())

	f.seed(func(r repository.Repositories) error {
		list, err := r.Products.List(f.ctx, repository.ProductFilter{})
		assert.Empty(t, list)
		return err
	})
}

func TestProductUseCase_IdempotentRead(t *testing.T) {
	f := newFixture(t)
	uc := NewProductUseCase(f.store, f.engine)
	a := f.acme("acme")
	p := f.product(a.warehouse, "IDEM", 7)

	first, err := uc.Get(f.ctx, a.admin.ID, entity.RefID(p.ID))
	require.NoError(t, err)
	second, err := uc.Get(f.ctx, a.admin.ID, entity.Ref{UUID: p.UUID})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProductUseCase_UpdateMovesWarehouse(t *testing.T) {
	f := newFixture(t)
	uc := NewProductUseCase(f.store, f.engine)
	a := f.acme("acme")
	b := f.acme("globex")
	p := f.product(a.warehouse, "MOVE", 7)
	f.product(b.warehouse, "TAKEN", 1)

	_, err := uc.Update(f.ctx, a.admin.ID, entity.RefID(p.ID), dto.UpdateProductRequest{WarehouseID: &b.warehouse.ID})
	assert.ErrorIs(t, err, domain.CrossTenantOperationForbidden())

	out, err := uc.Update(f.ctx, f.root.ID, entity.RefID(p.ID), dto.UpdateProductRequest{WarehouseID: &b.warehouse.ID})
	require.NoError(t, err)
	assert.Equal(t, b.tenant.ID, out.TenantID)
	assert.Equal(t, b.warehouse.ID, out.WarehouseID)

	_, err = uc.Update(f.ctx, f.root.ID, entity.RefID(p.ID), dto.UpdateProductRequest{SKU: strPtr("TAKEN")})
	assert.ErrorIs(t, err, domain.ProductSKUAlreadyExist("TAKEN"))

	qty := int64(-3)
	_, err = uc.Update(f.ctx, f.root.ID, entity.RefID(p.ID), dto.UpdateProductRequest{Quantity: &qty})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestProductUseCase_Delete(t *testing.T) {
	f := newFixture(t)
	uc := NewProductUseCase(f.store, f.engine)
	restock := NewRestockUseCase(f.store, f.engine)
	a := f.acme("acme")
	withHistory := f.product(a.warehouse, "HIST", 1)
	plain := f.product(a.warehouse, "PLAIN", 1)

	_, err := restock.Restock(f.ctx, a.admin.ID, entity.RefID(withHistory.ID), dto.RestockRequest{Quantity: 1})
	require.NoError(t, err)

	err = uc.Delete(f.ctx, a.admin.ID, entity.RefID(withHistory.ID))
	assert.ErrorIs(t, err, domain.ProductHasRestockHistory(withHistory.ID))

	require.NoError(t, uc.Delete(f.ctx, a.admin.ID, entity.RefID(plain.ID)))
	_, err = uc.Get(f.ctx, a.admin.ID, entity.RefID(plain.ID))
	assert.ErrorIs(t, err, domain.ProductNotFound(plain.ID))
}

func TestProductUseCase_VerifyTenantConsistency(t *testing.T) {
	f := newFixture(t)
	uc := NewProductUseCase(f.store, f.engine)
	a := f.acme("acme")
	b := f.acme("globex")
	p := f.product(a.warehouse, "OK", 1)

	report, err := uc.VerifyTenantConsistency(f.ctx, f.root.ID)
	require.NoError(t, err)
	assert.True(t, report.Consistent)

	f.seed(func(r repository.Repositories) error {
		p.TenantID = b.tenant.ID
		return r.Products.Update(f.ctx, p)
	})
	report, err = uc.VerifyTenantConsistency(f.ctx, f.root.ID)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, p.ID, report.Mismatches[0].ID)

	_, err = uc.VerifyTenantConsistency(f.ctx, a.admin.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// lockSpyRunner registra qué lecturas de producto se hicieron con bloqueo de fila.
type lockSpyRunner struct {
	repository.TxRunner
	locked   int
	unlocked int
}

type lockSpyProducts struct {
	repository.ProductRepository
	spy *lockSpyRunner
}

func (p lockSpyProducts) Get(ctx context.Context, ref entity.Ref) (*entity.Product, error) {
	p.spy.unlocked++
	return p.ProductRepository.Get(ctx, ref)
}

func (p lockSpyProducts) GetForUpdate(ctx context.Context, ref entity.Ref) (*entity.Product, error) {
	p.spy.locked++
	return p.ProductRepository.GetForUpdate(ctx, ref)
}

func (s *lockSpyRunner) Run(ctx context.Context, fn func(r repository.Repositories) error) error {
	return s.TxRunner.Run(ctx, func(r repository.Repositories) error {
		r.Products = lockSpyProducts{ProductRepository: r.Products, spy: s}
		return fn(r)
	})
}

// Update y Delete escriben sobre la fila bloqueada: una reposición concurrente no se sobrescribe.
func TestProductUseCase_WritesLockTheRow(t *testing.T) {
	f := newFixture(t)
	a := f.acme("acme")
	p := f.product(a.warehouse, "LOCK", 100)
	gone := f.product(a.warehouse, "GONE", 1)
	spy := &lockSpyRunner{TxRunner: f.store}
	uc := NewProductUseCase(spy, f.engine)

	name := "Renamed"
	out, err := uc.Update(f.ctx, a.admin.ID, entity.RefID(p.ID), dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, int64(100), out.Quantity)
	require.NoError(t, uc.Delete(f.ctx, a.admin.ID, entity.RefID(gone.ID)))

	assert.Equal(t, 2, spy.locked)
	assert.Zero(t, spy.unlocked)
}
