package repository

import (
	"context"

	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
)

// PermissionRepository define el puerto de persistencia para WarehousePermission (DIP).
// La unicidad (user_id, warehouse_id) la garantiza el almacenamiento.
type PermissionRepository interface {
	Create(ctx context.Context, perm *entity.WarehousePermission) error
	Get(ctx context.Context, ref entity.Ref) (*entity.WarehousePermission, error)
	GetByUserAndWarehouse(ctx context.Context, userID, warehouseID int64) (*entity.WarehousePermission, error)
	Update(ctx context.Context, perm *entity.WarehousePermission) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]*entity.WarehousePermission, error)
	ListByWarehouse(ctx context.Context, warehouseID int64) ([]*entity.WarehousePermission, error)
	// DeleteByUser y DeleteByWarehouse implementan el borrado en cascada.
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteByWarehouse(ctx context.Context, warehouseID int64) error
	List(ctx context.Context, filter PermissionFilter) ([]*entity.WarehousePermission, error)
}
