package usecase

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
)

func TestRestockUseCase_InvalidQuantity(t *testing.T) {
	f := newFixture(t)
	uc := NewRestockUseCase(f.store, f.engine)
	a := f.acme("acme")
	p := f.product(a.warehouse, "Q", 10)

	for _, q := range []int64{0, -5} {
		_, err := uc.Restock(f.ctx, a.admin.ID, entity.RefID(p.ID), dto.RestockRequest{Quantity: q})
		assert.ErrorIs(t, err, domain.RestockLogInvalidQuantity(q))
	}

	history, err := uc.History(f.ctx, a.admin.ID, entity.RefID(p.ID), dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, history.Items)
}

func TestRestockUseCase_QuantityOverflowIsRejected(t *testing.T) {
	f := newFixture(t)
	uc := NewRestockUseCase(f.store, f.engine)
	a := f.acme("acme")
	p := f.product(a.warehouse, "BIG", 100)

	_, err := uc.Restock(f.ctx, a.admin.ID, entity.RefID(p.ID), dto.RestockRequest{Quantity: math.MaxInt64})
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.RestockLogInvalidQuantity(math.MaxInt64))

	got, err := NewProductUseCase(f.store, f.engine).Get(f.ctx, a.admin.ID, entity.RefID(p.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Quantity)
	history, err := uc.History(f.ctx, a.admin.ID, entity.RefID(p.ID), dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, history.Items)

	out, err := uc.Restock(f.ctx, a.admin.ID, entity.RefID(p.ID), dto.RestockRequest{Quantity: math.MaxInt64 - 100})
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), out.Quantity)
}

func TestRestockUseCase_ConcurrentRestocksAreAdditive(t *testing.T) {
	f := newFixture(t)
	uc := NewRestockUseCase(f.store, f.engine)
	a := f.acme("acme")
	p := f.product(a.warehouse, "CONC", 100)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, q := range []int64{10, 5} {
		wg.Add(1)
		go func(q int64) {
			defer wg.Done()
			_, err := uc.Restock(f.ctx, a.admin.ID, entity.RefID(p.ID), dto.RestockRequest{Quantity: q, Reason: "supplier"})
			errs <- err
		}(q)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	products := NewProductUseCase(f.store, f.engine)
	got, err := products.Get(f.ctx, a.admin.ID, entity.RefID(p.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(115), got.Quantity)

	history, err := uc.History(f.ctx, a.admin.ID, entity.RefID(p.ID), dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, history.Items, 2)
}

func TestRestockUseCase_RegularUserNeedsEdit(t *testing.T) {
	f := newFixture(t)
	uc := NewRestockUseCase(f.store, f.engine)
	a := f.acme("acme")
	viewOnly := f.warehouse(a.tenant.ID, "ViewOnly")
	f.grant(a.john, a.warehouse, entity.AccessEdit)
	f.grant(a.john, viewOnly, entity.AccessView)
	editable := f.product(a.warehouse, "E", 1)
	readable := f.product(viewOnly, "V", 1)

	out, err := uc.Restock(f.ctx, a.john.ID, entity.RefID(editable.ID), dto.RestockRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Quantity)

	_, err = uc.Restock(f.ctx, a.john.ID, entity.RefID(readable.ID), dto.RestockRequest{Quantity: 4})
	assert.ErrorIs(t, err, domain.Forbidden("WarehouseEditPermissionRequired", ""))

	_, err = uc.History(f.ctx, a.john.ID, entity.RefID(readable.ID), dto.PageRequest{})
	require.NoError(t, err)
}

func TestRestockUseCase_ListIsScoped(t *testing.T) {
	f := newFixture(t)
	uc := NewRestockUseCase(f.store, f.engine)
	a := f.acme("acme")
	b := f.acme("globex")
	hidden := f.warehouse(a.tenant.ID, "Hidden")
	f.grant(a.john, a.warehouse, entity.AccessView)
	pa := f.product(a.warehouse, "A", 1)
	ph := f.product(hidden, "H", 1)
	pb := f.product(b.warehouse, "B", 1)

	for _, step := range []struct {
		actor int64
		ref   int64
	}{{a.admin.ID, pa.ID}, {a.admin.ID, ph.ID}, {b.admin.ID, pb.ID}} {
		_, err := uc.Restock(f.ctx, step.actor, entity.RefID(step.ref), dto.RestockRequest{Quantity: 1})
		require.NoError(t, err)
	}

	all, err := uc.List(f.ctx, f.root.ID, nil, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)

	tenant, err := uc.List(f.ctx, a.admin.ID, nil, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, tenant.Items, 2)

	john, err := uc.List(f.ctx, a.john.ID, nil, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, john.Items, 1)
	assert.Equal(t, pa.ID, john.Items[0].ProductID)

	_, err = uc.History(f.ctx, a.john.ID, entity.RefID(pb.ID), dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ProductNotFound(pb.ID))
}
