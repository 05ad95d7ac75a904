package repository

import (
	"context"

	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant (DIP).
// La implementación vive en infrastructure.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	Get(ctx context.Context, ref entity.Ref) (*entity.Tenant, error)
	GetByName(ctx context.Context, name string) (*entity.Tenant, error)
	Update(ctx context.Context, tenant *entity.Tenant) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter TenantFilter) ([]*entity.Tenant, error)
	// CountDependents cuenta usuarios y bodegas que referencian al tenant.
	CountDependents(ctx context.Context, id int64) (int, error)
}
