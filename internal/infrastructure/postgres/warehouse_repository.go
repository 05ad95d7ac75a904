package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

const warehouseColumns = `id, uuid::text, tenant_id, name, location, capacity, created_at, updated_at`

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

func scanWarehouse(row pgx.Row) (*entity.Warehouse, error) {
	var w entity.Warehouse
	if err := row.Scan(&w.ID, &w.UUID, &w.TenantID, &w.Name, &w.Location, &w.Capacity,
		&w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO warehouses (uuid, tenant_id, name, location, capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		w.UUID, w.TenantID, w.Name, w.Location, w.Capacity, w.CreatedAt, w.UpdatedAt,
	).Scan(&w.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.TenantNotFound(w.TenantID)
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// Get obtiene una bodega por ID o UUID.
func (r *WarehouseRepo) Get(ctx context.Context, ref entity.Ref) (*entity.Warehouse, error) {
	var row pgx.Row
	if ref.UUID != "" {
		row = r.q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE uuid = $1`, ref.UUID)
	} else {
		row = r.q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, ref.ID)
	}
	w, err := scanWarehouse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return w, nil
}

// Update actualiza una bodega existente.
func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	_, err := r.q.Exec(ctx, `
		UPDATE warehouses SET name = $2, location = $3, capacity = $4, updated_at = $5 WHERE id = $1`,
		w.ID, w.Name, w.Location, w.Capacity, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	return nil
}

// Delete elimina una bodega por ID.
func (r *WarehouseRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, id); err != nil {
		return warehouseDeleteError(err, id)
	}
	return nil
}

// List lista bodegas por tenant y, si RestrictIDs, solo las indicadas.
func (r *WarehouseRepo) List(ctx context.Context, filter repository.WarehouseFilter) ([]*entity.Warehouse, error) {
	limit, offset := pageArgs(filter.Page.Limit, filter.Page.Offset)
	ids := filter.IDs
	if ids == nil {
		ids = []int64{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+warehouseColumns+` FROM warehouses
		WHERE ($1::bigint IS NULL OR tenant_id = $1)
		  AND (NOT $2 OR id = ANY($3))
		ORDER BY id LIMIT $4 OFFSET $5`,
		filter.TenantID, filter.RestrictIDs, ids, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	list := []*entity.Warehouse{}
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// CountProducts cuenta los productos de la bodega.
func (r *WarehouseRepo) CountProducts(ctx context.Context, id int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE warehouse_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count warehouse products: %w", err)
	}
	return n, nil
}

// warehouseDeleteError distingue qué fila dependiente impidió el borrado.
func warehouseDeleteError(err error, id int64) error {
	if isForeignKeyViolation(err) {
		if violatedConstraint(err) == "warehouse_permissions_warehouse_id_fkey" {
			return domain.WarehouseHasPermissions(id)
		}
		return domain.WarehouseHasProducts(id)
	}
	return fmt.Errorf("delete warehouse: %w", err)
}
