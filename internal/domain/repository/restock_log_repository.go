package repository

import (
	"context"

	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
)

// RestockLogRepository puerto de persistencia del historial de reposiciones (solo inserción).
type RestockLogRepository interface {
	Create(ctx context.Context, log *entity.RestockLog) error
	ListByProduct(ctx context.Context, productID int64) ([]*entity.RestockLog, error)
	List(ctx context.Context, filter RestockFilter) ([]*entity.RestockLog, error)
	CountByProduct(ctx context.Context, productID int64) (int, error)
}
