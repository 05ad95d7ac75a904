package repository

import (
	"context"

	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	Get(ctx context.Context, ref entity.Ref) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter WarehouseFilter) ([]*entity.Warehouse, error)
	CountProducts(ctx context.Context, id int64) (int, error)
}
