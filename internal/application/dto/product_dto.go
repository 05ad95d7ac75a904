package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El tenant se deriva de la bodega.
type CreateProductRequest struct {
	WarehouseID int64           `json:"warehouse_id" validate:"required"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity" validate:"min=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// UpdateProductRequest actualización parcial; WarehouseID mueve el producto de bodega.
type UpdateProductRequest struct {
	WarehouseID *int64           `json:"warehouse_id"`
	Name        *string          `json:"name"`
	SKU         *string          `json:"sku"`
	Description *string          `json:"description"`
	Quantity    *int64           `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	UUID        string          `json:"uuid"`
	TenantID    int64           `json:"tenant_id"`
	WarehouseID int64           `json:"warehouse_id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductListFilter filtros opcionales de listado.
type ProductListFilter struct {
	TenantID    *int64
	WarehouseID *int64
}

// RestockRequest entrada de POST /products/:id/restock.
type RestockRequest struct {
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
	Reason   string `json:"reason"`
}

// RestockLogResponse salida de una entrada del historial.
type RestockLogResponse struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid"`
	ProductID   int64     `json:"product_id"`
	Quantity    int64     `json:"quantity"`
	Reason      string    `json:"reason"`
	RestockedAt time.Time `json:"restocked_at"`
}

// RestockLogListResponse lista paginada del historial.
type RestockLogListResponse struct {
	Items []RestockLogResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// ConsistencyReport productos cuyo tenant no coincide con el de su bodega.
type ConsistencyReport struct {
	Consistent bool              `json:"consistent"`
	Mismatches []ProductResponse `json:"mismatches"`
}
