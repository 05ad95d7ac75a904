package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto almacenado en una bodega.
// TenantID es una copia desnormalizada del tenant de la bodega: se deriva en cada escritura,
// nunca se acepta desde la entrada del cliente.
type Product struct {
	ID          int64
	UUID        string
	TenantID    int64
	WarehouseID int64
	Name        string
	SKU         string // único por tenant
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
