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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id, p.uuid::text, p.tenant_id, p.warehouse_id, p.name, p.sku, p.description,
	p.quantity, p.unit_price, p.created_at, p.updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.UUID, &p.TenantID, &p.WarehouseID, &p.Name, &p.SKU, &p.Description,
		&p.Quantity, &p.UnitPrice, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un nuevo producto. La unicidad (tenant_id, sku) la decide el constraint.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO products (uuid, tenant_id, warehouse_id, name, sku, description, quantity, unit_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		p.UUID, p.TenantID, p.WarehouseID, p.Name, p.SKU, p.Description, p.Quantity, p.UnitPrice,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return productWriteError(err, p, "insert")
	}
	return nil
}

func (r *ProductRepo) get(ctx context.Context, ref entity.Ref, suffix string) (*entity.Product, error) {
	var row pgx.Row
	if ref.UUID != "" {
		row = r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.uuid = $1`+suffix, ref.UUID)
	} else {
		row = r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`+suffix, ref.ID)
	}
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Get obtiene un producto por ID o UUID.
func (r *ProductRepo) Get(ctx context.Context, ref entity.Ref) (*entity.Product, error) {
	return r.get(ctx, ref, "")
}

// GetForUpdate obtiene el producto bloqueando la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, ref entity.Ref) (*entity.Product, error) {
	return r.get(ctx, ref, " FOR UPDATE")
}

// GetByTenantAndSKU obtiene un producto por tenant y SKU.
func (r *ProductRepo) GetByTenantAndSKU(ctx context.Context, tenantID int64, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.tenant_id = $1 AND p.sku = $2`, tenantID, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update actualiza un producto existente (incluye cambio de bodega y tenant derivado).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		UPDATE products SET tenant_id = $2, warehouse_id = $3, name = $4, sku = $5, description = $6,
		       quantity = $7, unit_price = $8, updated_at = $9
		WHERE id = $1`,
		p.ID, p.TenantID, p.WarehouseID, p.Name, p.SKU, p.Description, p.Quantity, p.UnitPrice, p.UpdatedAt,
	)
	if err != nil {
		return productWriteError(err, p, "update")
	}
	return nil
}

// IncrementQuantity suma delta en la propia sentencia, sin leer-modificar-escribir en Go.
func (r *ProductRepo) IncrementQuantity(ctx context.Context, id int64, delta int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `
		UPDATE products p SET quantity = p.quantity + $2, updated_at = now()
		WHERE p.id = $1
		RETURNING `+productColumns, id, delta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isNumericOutOfRange(err) {
			return nil, domain.ValueOutOfRange("quantity")
		}
		return nil, fmt.Errorf("increment product quantity: %w", err)
	}
	return p, nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ProductHasRestockHistory(id)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func productFilterArgs(filter repository.ProductFilter) (any, bool, []int64) {
	ids := filter.WarehouseIDs
	if ids == nil {
		ids = []int64{}
	}
	return filter.TenantID, filter.RestrictWarehouses, ids
}

// List lista productos por tenant y bodegas visibles con paginación.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	tenantID, restrict, ids := productFilterArgs(filter)
	limit, offset := pageArgs(filter.Page.Limit, filter.Page.Offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products p
		WHERE ($1::bigint IS NULL OR p.tenant_id = $1)
		  AND (NOT $2 OR p.warehouse_id = ANY($3))
		ORDER BY p.id LIMIT $4 OFFSET $5`,
		tenantID, restrict, ids, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

// ListLowStock productos con quantity < threshold.
func (r *ProductRepo) ListLowStock(ctx context.Context, filter repository.ProductFilter, threshold int64) ([]*entity.Product, error) {
	tenantID, restrict, ids := productFilterArgs(filter)
	limit, offset := pageArgs(filter.Page.Limit, filter.Page.Offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products p
		WHERE p.quantity < $1
		  AND ($2::bigint IS NULL OR p.tenant_id = $2)
		  AND (NOT $3 OR p.warehouse_id = ANY($4))
		ORDER BY p.id LIMIT $5 OFFSET $6`,
		threshold, tenantID, restrict, ids, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}
	return collectProducts(rows)
}

// ListTenantMismatches productos cuyo tenant_id no coincide con el de su bodega.
func (r *ProductRepo) ListTenantMismatches(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products p
		JOIN warehouses w ON w.id = p.warehouse_id
		WHERE w.tenant_id <> p.tenant_id
		ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("list product tenant mismatches: %w", err)
	}
	return collectProducts(rows)
}

// productWriteError traduce SKU duplicado, bodega o tenant inexistentes y precio fuera de NUMERIC(14,2).
func productWriteError(err error, p *entity.Product, op string) error {
	switch {
	case isUniqueOn(err, "products_tenant_sku_key"):
		return domain.ProductSKUAlreadyExist(p.SKU)
	case isForeignKeyViolation(err) && violatedConstraint(err) == "products_tenant_id_fkey":
		return domain.TenantNotFound(p.TenantID)
	case isForeignKeyViolation(err):
		return domain.WarehouseNotFound(p.WarehouseID)
	case isNumericOutOfRange(err):
		return domain.ValueOutOfRange("unit_price")
	}
	return fmt.Errorf("%s product: %w", op, err)
}
