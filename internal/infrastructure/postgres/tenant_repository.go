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

var _ repository.TenantRepository = (*TenantRepo)(nil)

const tenantColumns = `id, uuid::text, name, contact_email, created_at, updated_at`

// TenantRepo implementación del puerto TenantRepository sobre PostgreSQL (usable con pool o tx).
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador de persistencia para tenants. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

func scanTenant(row pgx.Row) (*entity.Tenant, error) {
	var t entity.Tenant
	if err := row.Scan(&t.ID, &t.UUID, &t.Name, &t.ContactEmail, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste un nuevo tenant y asigna su ID.
func (r *TenantRepo) Create(ctx context.Context, tenant *entity.Tenant) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO tenants (uuid, name, contact_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		tenant.UUID, tenant.Name, tenant.ContactEmail, tenant.CreatedAt, tenant.UpdatedAt,
	).Scan(&tenant.ID)
	if err != nil {
		return tenantWriteError(err, tenant, "insert")
	}
	return nil
}

// Get obtiene un tenant por ID o UUID.
func (r *TenantRepo) Get(ctx context.Context, ref entity.Ref) (*entity.Tenant, error) {
	var row pgx.Row
	if ref.UUID != "" {
		row = r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE uuid = $1`, ref.UUID)
	} else {
		row = r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, ref.ID)
	}
	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// GetByName obtiene un tenant por nombre.
func (r *TenantRepo) GetByName(ctx context.Context, name string) (*entity.Tenant, error) {
	t, err := scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by name: %w", err)
	}
	return t, nil
}

// Update actualiza nombre y email de contacto.
func (r *TenantRepo) Update(ctx context.Context, tenant *entity.Tenant) error {
	_, err := r.q.Exec(ctx, `
		UPDATE tenants SET name = $2, contact_email = $3, updated_at = $4 WHERE id = $1`,
		tenant.ID, tenant.Name, tenant.ContactEmail, tenant.UpdatedAt,
	)
	if err != nil {
		return tenantWriteError(err, tenant, "update")
	}
	return nil
}

// Delete elimina un tenant por ID.
func (r *TenantRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id); err != nil {
		return tenantDeleteError(err, id)
	}
	return nil
}

// List lista tenants (todos o solo uno si TenantID viene) con paginación.
func (r *TenantRepo) List(ctx context.Context, filter repository.TenantFilter) ([]*entity.Tenant, error) {
	limit, offset := pageArgs(filter.Page.Limit, filter.Page.Offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+tenantColumns+` FROM tenants
		WHERE ($1::bigint IS NULL OR id = $1)
		ORDER BY id LIMIT $2 OFFSET $3`,
		filter.TenantID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	list := []*entity.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// CountDependents cuenta usuarios y bodegas del tenant.
func (r *TenantRepo) CountDependents(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT (SELECT count(*) FROM users WHERE tenant_id = $1)
		     + (SELECT count(*) FROM warehouses WHERE tenant_id = $1)`, id,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tenant dependents: %w", err)
	}
	return n, nil
}

// tenantWriteError traduce la violación del nombre único; el resto (ej. uuid) queda como error interno.
func tenantWriteError(err error, tenant *entity.Tenant, op string) error {
	if isUniqueOn(err, "tenants_name_key") {
		return domain.TenantNameAlreadyExist(tenant.Name)
	}
	return fmt.Errorf("%s tenant: %w", op, err)
}

// tenantDeleteError una FK violada al borrar significa que apareció un usuario o bodega del tenant.
func tenantDeleteError(err error, id int64) error {
	if isForeignKeyViolation(err) {
		return domain.TenantHasDependents(id)
	}
	return fmt.Errorf("delete tenant: %w", err)
}
