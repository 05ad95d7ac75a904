// Package analytics agrega el resumen de inventario: stock visible, valor y reposiciones
// del día y del mes en curso.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/inventory"
)

// TopRestocked número de productos en el ranking de reposiciones del mes.
const TopRestocked = 5

// Summarize construye el resumen a partir de los productos y reposiciones ya filtrados por
// visibilidad. Las reposiciones de productos fuera de products se ignoran.
func Summarize(products []*entity.Product, logs []*entity.RestockLog, threshold int64, now time.Time) *dto.InventorySummaryResponse {
	// Hoy: desde las 00:00; mes: desde el día 1 a las 00:00.
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	out := &dto.InventorySummaryResponse{
		GeneratedAt:       now,
		Period:            monthLabel(now),
		LowStockThreshold: threshold,
		StockValue:        decimal.Zero,
		TopRestocked:      []dto.RestockedProduct{},
	}

	byID := make(map[int64]*entity.Product, len(products))
	warehouses := make(map[int64]struct{})
	for _, p := range products {
		byID[p.ID] = p
		warehouses[p.WarehouseID] = struct{}{}
		out.Products++
		out.TotalUnits += p.Quantity
		out.StockValue = out.StockValue.Add(inventory.StockValue(p.Quantity, p.UnitPrice))
		if p.Quantity < threshold {
			out.LowStockProducts++
		}
	}
	out.Warehouses = len(warehouses)
	out.StockValue = out.StockValue.Round(2)

	units := make(map[int64]int64)
	for _, l := range logs {
		if _, ok := byID[l.ProductID]; !ok || l.RestockedAt.Before(monthStart) || l.RestockedAt.After(now) {
			continue
		}
		out.Month.Restocks++
		out.Month.Units += l.Quantity
		units[l.ProductID] += l.Quantity
		if !l.RestockedAt.Before(todayStart) {
			out.Today.Restocks++
			out.Today.Units += l.Quantity
		}
	}

	for id, n := range units {
		p := byID[id]
		out.TopRestocked = append(out.TopRestocked, dto.RestockedProduct{
			ProductID: id,
			Name:      p.Name,
			SKU:       p.SKU,
			Units:     n,
		})
	}
	sort.Slice(out.TopRestocked, func(i, j int) bool {
		a, b := out.TopRestocked[i], out.TopRestocked[j]
		if a.Units != b.Units {
			return a.Units > b.Units
		}
		return a.ProductID < b.ProductID
	})
	if len(out.TopRestocked) > TopRestocked {
		out.TopRestocked = out.TopRestocked[:TopRestocked]
	}
	return out
}

// monthLabel etiqueta del mes en formato YYYY-MM.
func monthLabel(t time.Time) string {
	return t.Format("2006-01")
}
