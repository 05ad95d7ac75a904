package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockItem producto con cantidad por debajo del umbral.
type LowStockItem struct {
	ID          int64  `json:"id"`
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	WarehouseID int64  `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
	Threshold   int64  `json:"threshold"`
	// Shortfall unidades que faltan para alcanzar el umbral.
	Shortfall    int64           `json:"shortfall"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	RestockValue decimal.Decimal `json:"restock_value"`
}

// LowStockResponse lista de productos con bajo stock.
type LowStockResponse struct {
	Threshold         int64           `json:"threshold"`
	Items             []LowStockItem  `json:"items"`
	TotalShortfall    int64           `json:"total_shortfall"`
	TotalRestockValue decimal.Decimal `json:"total_restock_value"`
}

// StockTrendPoint punto de la serie de stock de un producto.
type StockTrendPoint struct {
	Date        string `json:"date"` // YYYY-MM-DD
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	StockLevel  int64  `json:"stock_level"`
}

// StockTrendResponse serie de stock (datos de demostración).
type StockTrendResponse struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Trends      []StockTrendPoint `json:"trends"`
}

// RestockPeriod reposiciones acumuladas en un periodo.
type RestockPeriod struct {
	Restocks int   `json:"restocks"`
	Units    int64 `json:"units"`
}

// RestockedProduct producto del ranking de unidades repuestas en el mes.
type RestockedProduct struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Units     int64  `json:"units"`
}

// InventorySummaryResponse resumen del inventario visible para el actor.
type InventorySummaryResponse struct {
	GeneratedAt       time.Time          `json:"generated_at"`
	Period            string             `json:"period"` // YYYY-MM
	Warehouses        int                `json:"warehouses"`
	Products          int                `json:"products"`
	TotalUnits        int64              `json:"total_units"`
	StockValue        decimal.Decimal    `json:"stock_value"`
	LowStockThreshold int64              `json:"low_stock_threshold"`
	LowStockProducts  int                `json:"low_stock_products"`
	Today             RestockPeriod      `json:"today"`
	Month             RestockPeriod      `json:"month"`
	TopRestocked      []RestockedProduct `json:"top_restocked"`
}
