package repository

import (
	"context"

	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Get(ctx context.Context, ref entity.Ref) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, ref entity.Ref) (*entity.Product, error)
	GetByTenantAndSKU(ctx context.Context, tenantID int64, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// IncrementQuantity suma delta a la cantidad de forma atómica y devuelve el producto actualizado.
	IncrementQuantity(ctx context.Context, id int64, delta int64) (*entity.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// ListLowStock productos con quantity < threshold.
	ListLowStock(ctx context.Context, filter ProductFilter, threshold int64) ([]*entity.Product, error)
	// ListTenantMismatches productos cuyo tenant difiere del tenant de su bodega.
	ListTenantMismatches(ctx context.Context) ([]*entity.Product, error)
}
