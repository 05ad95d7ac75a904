package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

var _ repository.RestockLogRepository = (*RestockLogRepo)(nil)

const restockColumns = `l.id, l.uuid::text, l.product_id, l.quantity, l.reason, l.restocked_at`

// RestockLogRepo historial de reposiciones sobre PostgreSQL. Solo inserta y consulta.
type RestockLogRepo struct {
	q Querier
}

// NewRestockLogRepository construye el adaptador del historial de reposiciones.
func NewRestockLogRepository(q Querier) *RestockLogRepo {
	return &RestockLogRepo{q: q}
}

// Create agrega una entrada al historial.
func (r *RestockLogRepo) Create(ctx context.Context, log *entity.RestockLog) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO restock_logs (uuid, product_id, quantity, reason, restocked_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		log.UUID, log.ProductID, log.Quantity, log.Reason, log.RestockedAt,
	).Scan(&log.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ProductNotFound(log.ProductID)
		}
		return fmt.Errorf("insert restock log: %w", err)
	}
	return nil
}

// ListByProduct historial de un producto en orden de inserción.
func (r *RestockLogRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.RestockLog, error) {
	return r.List(ctx, repository.RestockFilter{ProductID: &productID})
}

// List historial filtrado por producto, tenant y bodegas visibles.
func (r *RestockLogRepo) List(ctx context.Context, filter repository.RestockFilter) ([]*entity.RestockLog, error) {
	ids := filter.WarehouseIDs
	if ids == nil {
		ids = []int64{}
	}
	limit, offset := pageArgs(filter.Page.Limit, filter.Page.Offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+restockColumns+` FROM restock_logs l
		JOIN products p ON p.id = l.product_id
		WHERE ($1::bigint IS NULL OR l.product_id = $1)
		  AND ($2::bigint IS NULL OR p.tenant_id = $2)
		  AND (NOT $3 OR p.warehouse_id = ANY($4))
		ORDER BY l.id LIMIT $5 OFFSET $6`,
		filter.ProductID, filter.TenantID, filter.RestrictWarehouses, ids, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list restock logs: %w", err)
	}
	defer rows.Close()
	list := []*entity.RestockLog{}
	for rows.Next() {
		var l entity.RestockLog
		if err := rows.Scan(&l.ID, &l.UUID, &l.ProductID, &l.Quantity, &l.Reason, &l.RestockedAt); err != nil {
			return nil, fmt.Errorf("scan restock log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// CountByProduct cantidad de reposiciones registradas para el producto.
func (r *RestockLogRepo) CountByProduct(ctx context.Context, productID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM restock_logs WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count restock logs: %w", err)
	}
	return n, nil
}
