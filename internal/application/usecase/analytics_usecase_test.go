package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
)

type fakeTrend struct{ seen []int64 }

func (s *fakeTrend) Trend(products []*entity.Product, days int, end time.Time) []dto.StockTrendPoint {
	var out []dto.StockTrendPoint
	for _, p := range products {
		s.seen = append(s.seen, p.ID)
		out = append(out, dto.StockTrendPoint{Date: end.Format("2006-01-02"), ProductID: p.ID, StockLevel: p.Quantity})
	}
	return out
}

type fakeReport struct {
	report *dto.LowStockResponse
	err    error
}

func (g *fakeReport) GenerateLowStockPDF(_ context.Context, report *dto.LowStockResponse, _ time.Time) ([]byte, error) {
	g.report = report
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-fake"), nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestAnalyticsUseCase_LowStock(t *testing.T) {
	f := newFixture(t)
	a := f.acme("acme")
	b := f.acme("globex")
	hidden := f.warehouse(a.tenant.ID, "Hidden")
	f.grant(a.john, a.warehouse, entity.AccessView)
	low := f.product(a.warehouse, "LOW", 3)
	f.product(a.warehouse, "HIGH", 50)
	f.product(hidden, "HIDDEN-LOW", 1)
	f.product(b.warehouse, "FOREIGN-LOW", 0)

	uc := NewAnalyticsUseCase(f.store, f.engine, &fakeTrend{}, &fakeReport{}, 10)

	out, err := uc.LowStock(f.ctx, a.john.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.Threshold)
	require.Len(t, out.Items, 1)
	assert.Equal(t, low.ID, out.Items[0].ID)
	assert.Equal(t, int64(10), out.Items[0].Threshold)
	assert.Equal(t, int64(7), out.Items[0].Shortfall)
	assert.Equal(t, "70", out.Items[0].RestockValue.String())
	assert.Equal(t, int64(7), out.TotalShortfall)
	assert.Equal(t, "70", out.TotalRestockValue.String())

	admin, err := uc.LowStock(f.ctx, a.admin.ID, int64Ptr(100), nil)
	require.NoError(t, err)
	assert.Len(t, admin.Items, 3)

	root, err := uc.LowStock(f.ctx, f.root.ID, int64Ptr(0), nil)
	require.NoError(t, err)
	assert.Empty(t, root.Items)

	_, err = uc.LowStock(f.ctx, a.admin.ID, int64Ptr(-1), nil)
	assert.ErrorIs(t, err, domain.AnalyticsInvalidThreshold(-1))

	_, err = uc.LowStock(f.ctx, a.admin.ID, nil, &b.tenant.ID)
	assert.ErrorIs(t, err, domain.CrossTenantOperationForbidden())
}

func TestAnalyticsUseCase_DefaultThreshold(t *testing.T) {
	f := newFixture(t)
	uc := NewAnalyticsUseCase(f.store, f.engine, &fakeTrend{}, &fakeReport{}, -1)

	out, err := uc.LowStock(f.ctx, f.root.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultLowStockThreshold, out.Threshold)
	assert.NotNil(t, out.Items)
}

func TestAnalyticsUseCase_LowStockReportPDF(t *testing.T) {
	f := newFixture(t)
	a := f.acme("acme")
	f.product(a.warehouse, "LOW", 1)
	gen := &fakeReport{}
	uc := NewAnalyticsUseCase(f.store, f.engine, &fakeTrend{}, gen, 20)

	doc, err := uc.LowStockReportPDF(f.ctx, a.admin.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(doc))
	require.NotNil(t, gen.report)
	assert.Len(t, gen.report.Items, 1)

	gen.err = errors.New("boom")
	_, err = uc.LowStockReportPDF(f.ctx, a.admin.ID, nil, nil)
	assert.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestAnalyticsUseCase_StockTrendUsesVisibleProducts(t *testing.T) {
	f := newFixture(t)
	a := f.acme("acme")
	b := f.acme("globex")
	mine := f.product(a.warehouse, "MINE", 4)
	f.product(b.warehouse, "THEIRS", 4)
	src := &fakeTrend{}
	uc := NewAnalyticsUseCase(f.store, f.engine, src, &fakeReport{}, 20)

	out, err := uc.StockTrend(f.ctx, a.admin.ID, nil)
	require.NoError(t, err)
	require.Len(t, out.Trends, 1)
	assert.Equal(t, []int64{mine.ID}, src.seen)

	empty, err := uc.StockTrend(f.ctx, a.john.ID, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty.Trends)
	assert.Empty(t, empty.Trends)
}

func TestAnalyticsUseCase_Summary(t *testing.T) {
	f := newFixture(t)
	a := f.acme("acme")
	b := f.acme("globex")
	hidden := f.warehouse(a.tenant.ID, "Hidden")
	f.grant(a.john, a.warehouse, entity.AccessEdit)
	mine := f.product(a.warehouse, "MINE", 5)
	other := f.product(hidden, "OTHER", 40)
	foreign := f.product(b.warehouse, "FOREIGN", 1)

	restock := NewRestockUseCase(f.store, f.engine)
	for _, step := range []struct {
		actor   int64
		product int64
		qty     int64
	}{
		{a.john.ID, mine.ID, 3},
		{a.admin.ID, other.ID, 10},
		{b.admin.ID, foreign.ID, 7},
	} {
		_, err := restock.Restock(f.ctx, step.actor, entity.RefID(step.product), dto.RestockRequest{Quantity: step.qty})
		require.NoError(t, err)
	}

	uc := NewAnalyticsUseCase(f.store, f.engine, &fakeTrend{}, &fakeReport{}, 20)

	admin, err := uc.Summary(f.ctx, a.admin.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, admin.Warehouses)
	assert.Equal(t, 2, admin.Products)
	assert.Equal(t, int64(58), admin.TotalUnits)
	assert.Equal(t, "580", admin.StockValue.String())
	assert.Equal(t, 1, admin.LowStockProducts)
	assert.Equal(t, 2, admin.Month.Restocks)
	assert.Equal(t, int64(13), admin.Month.Units)
	require.Len(t, admin.TopRestocked, 2)
	assert.Equal(t, other.ID, admin.TopRestocked[0].ProductID)

	john, err := uc.Summary(f.ctx, a.john.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, john.Products)
	assert.Equal(t, int64(8), john.TotalUnits)
	assert.Equal(t, int64(3), john.Month.Units)

	root, err := uc.Summary(f.ctx, f.root.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, root.Products)
	assert.Equal(t, 3, root.Month.Restocks)

	_, err = uc.Summary(f.ctx, a.admin.ID, &b.tenant.ID)
	assert.ErrorIs(t, err, domain.CrossTenantOperationForbidden())
}
