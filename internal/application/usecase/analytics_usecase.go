package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-tenants/internal/application/analytics"
	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/authz"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/inventory"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

// DefaultLowStockThreshold umbral de bajo stock cuando no se configura otro.
const DefaultLowStockThreshold int64 = 20

// TrendDays días cubiertos por la serie de tendencia.
const TrendDays = 30

// TrendSource produce la serie diaria de stock de los productos (hoy datos de demostración).
type TrendSource interface {
	Trend(products []*entity.Product, days int, end time.Time) []dto.StockTrendPoint
}

// LowStockReportGenerator genera el reporte PDF de bajo stock.
type LowStockReportGenerator interface {
	GenerateLowStockPDF(ctx context.Context, report *dto.LowStockResponse, generatedAt time.Time) ([]byte, error)
}

// AnalyticsUseCase reportes de inventario sobre los productos visibles para el actor.
type AnalyticsUseCase struct {
	service
	trends           TrendSource
	reports          LowStockReportGenerator
	defaultThreshold int64
}

// NewAnalyticsUseCase construye el caso de uso. defaultThreshold < 0 usa DefaultLowStockThreshold.
func NewAnalyticsUseCase(tx repository.TxRunner, engine *authz.Engine, trends TrendSource, reports LowStockReportGenerator, defaultThreshold int64) *AnalyticsUseCase {
	if defaultThreshold < 0 {
		defaultThreshold = DefaultLowStockThreshold
	}
	return &AnalyticsUseCase{
		service:          newService(tx, engine),
		trends:           trends,
		reports:          reports,
		defaultThreshold: defaultThreshold,
	}
}

// visibleProducts decide el listado y devuelve el filtro de productos visible para el actor.
func (uc *AnalyticsUseCase) visibleProducts(ctx context.Context, r repository.Repositories, actor *entity.User, tenantID *int64) (repository.ProductFilter, error) {
	if err := uc.engine.Decide(authz.Request{
		Actor:    actor,
		Action:   authz.ActionList,
		Resource: authz.Resource{Type: authz.ResourceProduct, TenantID: tenantID},
	}); err != nil {
		return repository.ProductFilter{}, err
	}
	ids, restricted, err := visibleWarehouses(ctx, r, actor)
	if err != nil {
		return repository.ProductFilter{}, err
	}
	return repository.ProductFilter{
		TenantID:           listTenant(actor, tenantID),
		WarehouseIDs:       ids,
		RestrictWarehouses: restricted,
	}, nil
}

// LowStock productos con quantity menor al umbral (por defecto el configurado).
func (uc *AnalyticsUseCase) LowStock(ctx context.Context, actorID int64, threshold *int64, tenantID *int64) (*dto.LowStockResponse, error) {
	t := uc.defaultThreshold
	if threshold != nil {
		t = *threshold
	}
	if t < 0 {
		return nil, domain.AnalyticsInvalidThreshold(t)
	}
	var out *dto.LowStockResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		filter, err := uc.visibleProducts(ctx, r, actor, tenantID)
		if err != nil {
			return err
		}
		list, err := r.Products.ListLowStock(ctx, filter, t)
		if err != nil {
			return err
		}
		out = &dto.LowStockResponse{
			Threshold:         t,
			Items:             make([]dto.LowStockItem, 0, len(list)),
			TotalRestockValue: decimal.Zero,
		}
		for _, p := range list {
			item := dto.LowStockItem{
				ID:           p.ID,
				UUID:         p.UUID,
				Name:         p.Name,
				SKU:          p.SKU,
				WarehouseID:  p.WarehouseID,
				Quantity:     p.Quantity,
				Threshold:    t,
				Shortfall:    inventory.Shortfall(p.Quantity, t),
				UnitPrice:    p.UnitPrice,
				RestockValue: inventory.RestockValue(p.Quantity, t, p.UnitPrice),
			}
			out.Items = append(out.Items, item)
			out.TotalShortfall += item.Shortfall
			out.TotalRestockValue = out.TotalRestockValue.Add(item.RestockValue)
		}
		return nil
	})
	return out, err
}

// LowStockReportPDF mismo contenido que LowStock, como documento PDF.
func (uc *AnalyticsUseCase) LowStockReportPDF(ctx context.Context, actorID int64, threshold *int64, tenantID *int64) ([]byte, error) {
	report, err := uc.LowStock(ctx, actorID, threshold, tenantID)
	if err != nil {
		return nil, err
	}
	doc, err := uc.reports.GenerateLowStockPDF(ctx, report, time.Now())
	if err != nil {
		return nil, fmt.Errorf("low stock report: %w", err)
	}
	return doc, nil
}

// StockTrend serie de los últimos TrendDays días para los productos visibles.
func (uc *AnalyticsUseCase) StockTrend(ctx context.Context, actorID int64, tenantID *int64) (*dto.StockTrendResponse, error) {
	var products []*entity.Product
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		filter, err := uc.visibleProducts(ctx, r, actor, tenantID)
		if err != nil {
			return err
		}
		products, err = r.Products.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	now := time.Now()
	trends := uc.trends.Trend(products, TrendDays, now)
	if trends == nil {
		trends = []dto.StockTrendPoint{}
	}
	return &dto.StockTrendResponse{GeneratedAt: now, Trends: trends}, nil
}

// Summary resumen del inventario visible: stock, valor, bajo stock y reposiciones del día y del mes.
func (uc *AnalyticsUseCase) Summary(ctx context.Context, actorID int64, tenantID *int64) (*dto.InventorySummaryResponse, error) {
	var (
		products []*entity.Product
		logs     []*entity.RestockLog
	)
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		filter, err := uc.visibleProducts(ctx, r, actor, tenantID)
		if err != nil {
			return err
		}
		if products, err = r.Products.List(ctx, filter); err != nil {
			return err
		}
		logs, err = r.Restocks.List(ctx, repository.RestockFilter{
			TenantID:           filter.TenantID,
			WarehouseIDs:       filter.WarehouseIDs,
			RestrictWarehouses: filter.RestrictWarehouses,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return analytics.Summarize(products, logs, uc.defaultThreshold, time.Now()), nil
}
