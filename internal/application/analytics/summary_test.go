package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	products := []*entity.Product{
		{ID: 1, WarehouseID: 10, Name: "Tornillo", SKU: "T-1", Quantity: 4, UnitPrice: decimal.RequireFromString("2.50")},
		{ID: 2, WarehouseID: 10, Name: "Tuerca", SKU: "N-1", Quantity: 30, UnitPrice: decimal.NewFromInt(1)},
		{ID: 3, WarehouseID: 11, Name: "Arandela", SKU: "W-1", Quantity: 0, UnitPrice: decimal.NewFromInt(3)},
	}
	logs := []*entity.RestockLog{
		{ProductID: 1, Quantity: 5, RestockedAt: now.Add(-time.Hour)},
		{ProductID: 2, Quantity: 20, RestockedAt: now.AddDate(0, 0, -3)},
		{ProductID: 1, Quantity: 1, RestockedAt: now.AddDate(0, 0, -20)}, // mes anterior
		{ProductID: 99, Quantity: 50, RestockedAt: now.Add(-time.Minute)}, // producto no visible
	}

	out := Summarize(products, logs, 10, now)

	assert.Equal(t, "2026-03", out.Period)
	assert.Equal(t, 2, out.Warehouses)
	assert.Equal(t, 3, out.Products)
	assert.Equal(t, int64(34), out.TotalUnits)
	assert.Equal(t, "40", out.StockValue.String())
	assert.Equal(t, int64(10), out.LowStockThreshold)
	assert.Equal(t, 2, out.LowStockProducts)
	assert.Equal(t, 1, out.Today.Restocks)
	assert.Equal(t, int64(5), out.Today.Units)
	assert.Equal(t, 2, out.Month.Restocks)
	assert.Equal(t, int64(25), out.Month.Units)
	require.Len(t, out.TopRestocked, 2)
	assert.Equal(t, int64(2), out.TopRestocked[0].ProductID)
	assert.Equal(t, "Tornillo", out.TopRestocked[1].Name)
}

func TestSummarize_TopIsCapped(t *testing.T) {
	now := time.Now()
	var products []*entity.Product
	var logs []*entity.RestockLog
	for i := int64(1); i <= TopRestocked+2; i++ {
		products = append(products, &entity.Product{ID: i, WarehouseID: 1, Quantity: 50})
		logs = append(logs, &entity.RestockLog{ProductID: i, Quantity: i, RestockedAt: now})
	}

	out := Summarize(products, logs, 20, now)
	require.Len(t, out.TopRestocked, TopRestocked)
	assert.Equal(t, int64(TopRestocked+2), out.TopRestocked[0].ProductID)
}

func TestSummarize_Empty(t *testing.T) {
	out := Summarize(nil, nil, 20, time.Now())
	assert.Zero(t, out.Products)
	assert.True(t, out.StockValue.IsZero())
	assert.NotNil(t, out.TopRestocked)
}
