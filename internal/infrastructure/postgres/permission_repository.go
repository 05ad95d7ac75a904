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

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

const permissionColumns = `id, uuid::text, user_id, warehouse_id, tenant_id, access_level, created_at, updated_at`

// PermissionRepo implementación del puerto PermissionRepository sobre PostgreSQL.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador de persistencia para permisos de bodega.
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

func scanPermission(row pgx.Row) (*entity.WarehousePermission, error) {
	var p entity.WarehousePermission
	var level string
	if err := row.Scan(&p.ID, &p.UUID, &p.UserID, &p.WarehouseID, &p.TenantID, &level,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.AccessLevel = entity.AccessLevel(level)
	return &p, nil
}

func (r *PermissionRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.WarehousePermission, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()
	list := []*entity.WarehousePermission{}
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un permiso. El par (user_id, warehouse_id) es único.
func (r *PermissionRepo) Create(ctx context.Context, perm *entity.WarehousePermission) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO warehouse_permissions (uuid, user_id, warehouse_id, tenant_id, access_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		perm.UUID, perm.UserID, perm.WarehouseID, perm.TenantID, string(perm.AccessLevel),
		perm.CreatedAt, perm.UpdatedAt,
	).Scan(&perm.ID)
	if err != nil {
		return permissionWriteError(err, perm)
	}
	return nil
}

// Get obtiene un permiso por ID o UUID.
func (r *PermissionRepo) Get(ctx context.Context, ref entity.Ref) (*entity.WarehousePermission, error) {
	var row pgx.Row
	if ref.UUID != "" {
		row = r.q.QueryRow(ctx, `SELECT `+permissionColumns+` FROM warehouse_permissions WHERE uuid = $1`, ref.UUID)
	} else {
		row = r.q.QueryRow(ctx, `SELECT `+permissionColumns+` FROM warehouse_permissions WHERE id = $1`, ref.ID)
	}
	p, err := scanPermission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}
	return p, nil
}

// GetByUserAndWarehouse obtiene el permiso del par (usuario, bodega).
func (r *PermissionRepo) GetByUserAndWarehouse(ctx context.Context, userID, warehouseID int64) (*entity.WarehousePermission, error) {
	p, err := scanPermission(r.q.QueryRow(ctx, `
		SELECT `+permissionColumns+` FROM warehouse_permissions
		WHERE user_id = $1 AND warehouse_id = $2`, userID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get permission by user and warehouse: %w", err)
	}
	return p, nil
}

// Update cambia el nivel de acceso.
func (r *PermissionRepo) Update(ctx context.Context, perm *entity.WarehousePermission) error {
	_, err := r.q.Exec(ctx, `
		UPDATE warehouse_permissions SET access_level = $2, updated_at = $3 WHERE id = $1`,
		perm.ID, string(perm.AccessLevel), perm.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update permission: %w", err)
	}
	return nil
}

// Delete elimina un permiso por ID.
func (r *PermissionRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM warehouse_permissions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	return nil
}

// DeleteByUser elimina los permisos del usuario (cascada al borrar usuario).
func (r *PermissionRepo) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM warehouse_permissions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete permissions by user: %w", err)
	}
	return nil
}

// DeleteByWarehouse elimina los permisos sobre la bodega (cascada al borrar bodega).
func (r *PermissionRepo) DeleteByWarehouse(ctx context.Context, warehouseID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM warehouse_permissions WHERE warehouse_id = $1`, warehouseID); err != nil {
		return fmt.Errorf("delete permissions by warehouse: %w", err)
	}
	return nil
}

// ListByUser permisos del usuario.
func (r *PermissionRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.WarehousePermission, error) {
	return r.query(ctx, `SELECT `+permissionColumns+` FROM warehouse_permissions WHERE user_id = $1 ORDER BY id`, userID)
}

// ListByWarehouse permisos sobre la bodega.
func (r *PermissionRepo) ListByWarehouse(ctx context.Context, warehouseID int64) ([]*entity.WarehousePermission, error) {
	return r.query(ctx, `SELECT `+permissionColumns+` FROM warehouse_permissions WHERE warehouse_id = $1 ORDER BY id`, warehouseID)
}

// List permisos filtrados por tenant, usuario y bodega.
func (r *PermissionRepo) List(ctx context.Context, filter repository.PermissionFilter) ([]*entity.WarehousePermission, error) {
	limit, offset := pageArgs(filter.Page.Limit, filter.Page.Offset)
	return r.query(ctx, `
		SELECT `+permissionColumns+` FROM warehouse_permissions
		WHERE ($1::bigint IS NULL OR tenant_id = $1)
		  AND ($2::bigint IS NULL OR user_id = $2)
		  AND ($3::bigint IS NULL OR warehouse_id = $3)
		ORDER BY id LIMIT $4 OFFSET $5`,
		filter.TenantID, filter.UserID, filter.WarehouseID, limit, offset,
	)
}

// permissionWriteError traduce el par duplicado y las FKs violadas por borrados concurrentes.
func permissionWriteError(err error, perm *entity.WarehousePermission) error {
	if isUniqueOn(err, "warehouse_permissions_user_warehouse_key") {
		return domain.WarehousePermissionAlreadyExist(perm.UserID, perm.WarehouseID)
	}
	if isForeignKeyViolation(err) {
		switch violatedConstraint(err) {
		case "warehouse_permissions_user_id_fkey":
			return domain.UserNotFound(perm.UserID)
		case "warehouse_permissions_tenant_id_fkey":
			return domain.TenantNotFound(perm.TenantID)
		default:
			return domain.WarehouseNotFound(perm.WarehouseID)
		}
	}
	return fmt.Errorf("insert permission: %w", err)
}
