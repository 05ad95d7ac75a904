package repository

import "context"

// Convención de los puertos: Get* devuelve (nil, nil) si el registro no existe y
// Create/Update devuelven el error Conflict del recurso ante una violación de unicidad.

// Repositories agrupa los repositorios atados a una misma transacción (unidad de trabajo).
type Repositories struct {
	Tenants     TenantRepository
	Users       UserRepository
	Warehouses  WarehouseRepository
	Products    ProductRepository
	Permissions PermissionRepository
	Restocks    RestockLogRepository
}

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a ella.
// Commit si fn devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repositories) error) error
}
