package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-tenants/internal/application/usecase"
)

// AnalyticsHandler reportes de inventario y chequeos administrativos.
type AnalyticsHandler struct {
	uc       *usecase.AnalyticsUseCase
	products *usecase.ProductUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *usecase.AnalyticsUseCase, products *usecase.ProductUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, products: products}
}

// LowStock godoc
// @Summary      Productos con bajo stock
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "Umbral (por defecto 20)"
// @Param        tenant_id  query  int  false  "Filtrar por tenant (system_admin)"
// @Success      200  {object}  dto.LowStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/low-stock [get]
func (h *AnalyticsHandler) LowStock(c *fiber.Ctx) error {
	threshold, tenantID, err := lowStockQuery(c)
	if err != nil {
		return err
	}
	out, err := h.uc.LowStock(c.UserContext(), GetUserID(c), threshold, tenantID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// LowStockReport godoc
// @Summary      Reporte PDF de bajo stock
// @Tags         analytics
// @Security     Bearer
// @Produce      application/pdf
// @Param        threshold  query  int  false  "Umbral (por defecto 20)"
// @Param        tenant_id  query  int  false  "Filtrar por tenant (system_admin)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/low-stock/report.pdf [get]
func (h *AnalyticsHandler) LowStockReport(c *fiber.Ctx) error {
	threshold, tenantID, err := lowStockQuery(c)
	if err != nil {
		return err
	}
	pdf, err := h.uc.LowStockReportPDF(c.UserContext(), GetUserID(c), threshold, tenantID)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="low-stock-report.pdf"`)
	return c.Send(pdf)
}

// StockTrend godoc
// @Summary      Tendencia de stock (datos de demostración)
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        tenant_id  query  int  false  "Filtrar por tenant (system_admin)"
// @Success      200  {object}  dto.StockTrendResponse
// @Router       /api/analytics/stock-trend [get]
func (h *AnalyticsHandler) StockTrend(c *fiber.Ctx) error {
	tenantID, err := int64Query(c, "tenant_id")
	if err != nil {
		return err
	}
	out, err := h.uc.StockTrend(c.UserContext(), GetUserID(c), tenantID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen del inventario visible (stock, valor y reposiciones del día y del mes)
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        tenant_id  query  int  false  "Filtrar por tenant (system_admin)"
// @Success      200  {object}  dto.InventorySummaryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	tenantID, err := int64Query(c, "tenant_id")
	if err != nil {
		return err
	}
	out, err := h.uc.Summary(c.UserContext(), GetUserID(c), tenantID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Consistency godoc
// @Summary      Productos cuyo tenant no coincide con el de su bodega
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ConsistencyReport
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/consistency [get]
func (h *AnalyticsHandler) Consistency(c *fiber.Ctx) error {
	out, err := h.products.VerifyTenantConsistency(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func lowStockQuery(c *fiber.Ctx) (threshold, tenantID *int64, err error) {
	if threshold, err = int64Query(c, "threshold"); err != nil {
		return nil, nil, err
	}
	if tenantID, err = int64Query(c, "tenant_id"); err != nil {
		return nil, nil, err
	}
	return threshold, tenantID, nil
}
