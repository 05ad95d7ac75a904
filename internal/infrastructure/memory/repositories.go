package memory

import (
	"context"
	"math"
	"strings"

	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

var (
	_ repository.TenantRepository     = (*TenantRepo)(nil)
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.WarehouseRepository  = (*WarehouseRepo)(nil)
	_ repository.ProductRepository    = (*ProductRepo)(nil)
	_ repository.PermissionRepository = (*PermissionRepo)(nil)
	_ repository.RestockLogRepository = (*RestockLogRepo)(nil)
)

// ── Tenants ──────────────────────────────────────────────────────────────────

// TenantRepo tenants en memoria.
type TenantRepo struct{ d *data }

func (r *TenantRepo) nameTaken(name string, exceptID int64) bool {
	for id, t := range r.d.tenants {
		if id != exceptID && t.Name == name {
			return true
		}
	}
	return false
}

func (r *TenantRepo) Create(_ context.Context, tenant *entity.Tenant) error {
	if r.nameTaken(tenant.Name, 0) {
		return domain.TenantNameAlreadyExist(tenant.Name)
	}
	tenant.ID = r.d.next("tenants")
	r.d.tenants[tenant.ID] = *tenant
	return nil
}

func (r *TenantRepo) Get(_ context.Context, ref entity.Ref) (*entity.Tenant, error) {
	for _, t := range r.d.tenants {
		if matchRef(ref, t.ID, t.UUID) {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *TenantRepo) GetByName(_ context.Context, name string) (*entity.Tenant, error) {
	for _, t := range r.d.tenants {
		if t.Name == name {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *TenantRepo) Update(_ context.Context, tenant *entity.Tenant) error {
	if _, ok := r.d.tenants[tenant.ID]; !ok {
		return nil
	}
	if r.nameTaken(tenant.Name, tenant.ID) {
		return domain.TenantNameAlreadyExist(tenant.Name)
	}
	r.d.tenants[tenant.ID] = *tenant
	return nil
}

func (r *TenantRepo) Delete(_ context.Context, id int64) error {
	delete(r.d.tenants, id)
	return nil
}

func (r *TenantRepo) List(_ context.Context, filter repository.TenantFilter) ([]*entity.Tenant, error) {
	list := []*entity.Tenant{}
	for _, id := range sortedIDs(r.d.tenants) {
		if filter.TenantID != nil && *filter.TenantID != id {
			continue
		}
		t := r.d.tenants[id]
		list = append(list, &t)
	}
	return paginate(list, filter.Page), nil
}

func (r *TenantRepo) CountDependents(_ context.Context, id int64) (int, error) {
	n := 0
	for _, u := range r.d.users {
		if u.TenantID != nil && *u.TenantID == id {
			n++
		}
	}
	for _, w := range r.d.warehouses {
		if w.TenantID == id {
			n++
		}
	}
	return n, nil
}

// ── Users ────────────────────────────────────────────────────────────────────

// UserRepo usuarios en memoria. El email es único sin distinguir mayúsculas.
type UserRepo struct{ d *data }

func (r *UserRepo) emailTaken(email string, exceptID int64) bool {
	for id, u := range r.d.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	if r.emailTaken(user.Email, 0) {
		return domain.UserEmailAlreadyExist(user.Email)
	}
	user.ID = r.d.next("users")
	r.d.users[user.ID] = copyUser(*user)
	return nil
}

func (r *UserRepo) Get(_ context.Context, ref entity.Ref) (*entity.User, error) {
	for _, u := range r.d.users {
		if matchRef(ref, u.ID, u.UUID) {
			u := copyUser(u)
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.d.users {
		if strings.EqualFold(u.Email, email) {
			u := copyUser(u)
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.d.users[user.ID]; !ok {
		return nil
	}
	if r.emailTaken(user.Email, user.ID) {
		return domain.UserEmailAlreadyExist(user.Email)
	}
	r.d.users[user.ID] = copyUser(*user)
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id int64) error {
	delete(r.d.users, id)
	return nil
}

func (r *UserRepo) List(_ context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	list := []*entity.User{}
	for _, id := range sortedIDs(r.d.users) {
		u := copyUser(r.d.users[id])
		if filter.TenantID != nil && !u.BelongsTo(*filter.TenantID) {
			continue
		}
		if filter.Role != "" && string(u.Role) != filter.Role {
			continue
		}
		list = append(list, &u)
	}
	return paginate(list, filter.Page), nil
}

// ── Warehouses ───────────────────────────────────────────────────────────────

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ d *data }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	w.ID = r.d.next("warehouses")
	r.d.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) Get(_ context.Context, ref entity.Ref) (*entity.Warehouse, error) {
	for _, w := range r.d.warehouses {
		if matchRef(ref, w.ID, w.UUID) {
			return &w, nil
		}
	}
	return nil, nil
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	if _, ok := r.d.warehouses[w.ID]; ok {
		r.d.warehouses[w.ID] = *w
	}
	return nil
}

func (r *WarehouseRepo) Delete(_ context.Context, id int64) error {
	delete(r.d.warehouses, id)
	return nil
}

func (r *WarehouseRepo) List(_ context.Context, filter repository.WarehouseFilter) ([]*entity.Warehouse, error) {
	list := []*entity.Warehouse{}
	for _, id := range sortedIDs(r.d.warehouses) {
		w := r.d.warehouses[id]
		if filter.TenantID != nil && w.TenantID != *filter.TenantID {
			continue
		}
		if filter.RestrictIDs && !containsID(filter.IDs, id) {
			continue
		}
		list = append(list, &w)
	}
	return paginate(list, filter.Page), nil
}

func (r *WarehouseRepo) CountProducts(_ context.Context, id int64) (int, error) {
	n := 0
	for _, p := range r.d.products {
		if p.WarehouseID == id {
			n++
		}
	}
	return n, nil
}

// ── Products ─────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria. SKU único por tenant.
type ProductRepo struct{ d *data }

func (r *ProductRepo) skuTaken(tenantID int64, sku string, exceptID int64) bool {
	for id, p := range r.d.products {
		if id != exceptID && p.TenantID == tenantID && p.SKU == sku {
			return true
		}
	}
	return false
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	if r.skuTaken(p.TenantID, p.SKU, 0) {
		return domain.ProductSKUAlreadyExist(p.SKU)
	}
	p.ID = r.d.next("products")
	r.d.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Get(_ context.Context, ref entity.Ref) (*entity.Product, error) {
	for _, p := range r.d.products {
		if matchRef(ref, p.ID, p.UUID) {
			return &p, nil
		}
	}
	return nil, nil
}

// GetForUpdate equivale a Get: la transacción ya tiene acceso exclusivo al almacenamiento.
func (r *ProductRepo) GetForUpdate(ctx context.Context, ref entity.Ref) (*entity.Product, error) {
	return r.Get(ctx, ref)
}

func (r *ProductRepo) GetByTenantAndSKU(_ context.Context, tenantID int64, sku string) (*entity.Product, error) {
	for _, p := range r.d.products {
		if p.TenantID == tenantID && p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	if _, ok := r.d.products[p.ID]; !ok {
		return nil
	}
	if r.skuTaken(p.TenantID, p.SKU, p.ID) {
		return domain.ProductSKUAlreadyExist(p.SKU)
	}
	r.d.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) IncrementQuantity(_ context.Context, id int64, delta int64) (*entity.Product, error) {
	p, ok := r.d.products[id]
	if !ok {
		return nil, nil
	}
	if delta > 0 && p.Quantity > math.MaxInt64-delta {
		return nil, domain.RestockLogQuantityOverflow(delta, p.Quantity)
	}
	p.Quantity += delta
	r.d.products[id] = p
	return &p, nil
}

func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	delete(r.d.products, id)
	return nil
}

func (r *ProductRepo) matches(p entity.Product, filter repository.ProductFilter) bool {
	if filter.TenantID != nil && p.TenantID != *filter.TenantID {
		return false
	}
	if filter.RestrictWarehouses && !containsID(filter.WarehouseIDs, p.WarehouseID) {
		return false
	}
	return true
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	list := []*entity.Product{}
	for _, id := range sortedIDs(r.d.products) {
		p := r.d.products[id]
		if r.matches(p, filter) {
			list = append(list, &p)
		}
	}
	return paginate(list, filter.Page), nil
}

func (r *ProductRepo) ListLowStock(_ context.Context, filter repository.ProductFilter, threshold int64) ([]*entity.Product, error) {
	list := []*entity.Product{}
	for _, id := range sortedIDs(r.d.products) {
		p := r.d.products[id]
		if p.Quantity < threshold && r.matches(p, filter) {
			list = append(list, &p)
		}
	}
	return paginate(list, filter.Page), nil
}

func (r *ProductRepo) ListTenantMismatches(_ context.Context) ([]*entity.Product, error) {
	list := []*entity.Product{}
	for _, id := range sortedIDs(r.d.products) {
		p := r.d.products[id]
		w, ok := r.d.warehouses[p.WarehouseID]
		if !ok || w.TenantID != p.TenantID {
			list = append(list, &p)
		}
	}
	return list, nil
}

// ── Permissions ──────────────────────────────────────────────────────────────

// PermissionRepo permisos de bodega en memoria. Par (user, warehouse) único.
type PermissionRepo struct{ d *data }

func (r *PermissionRepo) Create(_ context.Context, perm *entity.WarehousePermission) error {
	for _, p := range r.d.permissions {
		if p.UserID == perm.UserID && p.WarehouseID == perm.WarehouseID {
			return domain.WarehousePermissionAlreadyExist(perm.UserID, perm.WarehouseID)
		}
	}
	perm.ID = r.d.next("permissions")
	r.d.permissions[perm.ID] = *perm
	return nil
}

func (r *PermissionRepo) Get(_ context.Context, ref entity.Ref) (*entity.WarehousePermission, error) {
	for _, p := range r.d.permissions {
		if matchRef(ref, p.ID, p.UUID) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *PermissionRepo) GetByUserAndWarehouse(_ context.Context, userID, warehouseID int64) (*entity.WarehousePermission, error) {
	for _, p := range r.d.permissions {
		if p.UserID == userID && p.WarehouseID == warehouseID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *PermissionRepo) Update(_ context.Context, perm *entity.WarehousePermission) error {
	if _, ok := r.d.permissions[perm.ID]; ok {
		r.d.permissions[perm.ID] = *perm
	}
	return nil
}

func (r *PermissionRepo) Delete(_ context.Context, id int64) error {
	delete(r.d.permissions, id)
	return nil
}

func (r *PermissionRepo) DeleteByUser(_ context.Context, userID int64) error {
	for id, p := range r.d.permissions {
		if p.UserID == userID {
			delete(r.d.permissions, id)
		}
	}
	return nil
}

func (r *PermissionRepo) DeleteByWarehouse(_ context.Context, warehouseID int64) error {
	for id, p := range r.d.permissions {
		if p.WarehouseID == warehouseID {
			delete(r.d.permissions, id)
		}
	}
	return nil
}

func (r *PermissionRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.WarehousePermission, error) {
	return r.List(ctx, repository.PermissionFilter{UserID: &userID})
}

func (r *PermissionRepo) ListByWarehouse(ctx context.Context, warehouseID int64) ([]*entity.WarehousePermission, error) {
	return r.List(ctx, repository.PermissionFilter{WarehouseID: &warehouseID})
}

func (r *PermissionRepo) List(_ context.Context, filter repository.PermissionFilter) ([]*entity.WarehousePermission, error) {
	list := []*entity.WarehousePermission{}
	for _, id := range sortedIDs(r.d.permissions) {
		p := r.d.permissions[id]
		if filter.TenantID != nil && p.TenantID != *filter.TenantID {
			continue
		}
		if filter.UserID != nil && p.UserID != *filter.UserID {
			continue
		}
		if filter.WarehouseID != nil && p.WarehouseID != *filter.WarehouseID {
			continue
		}
		list = append(list, &p)
	}
	return paginate(list, filter.Page), nil
}

// ── Restock logs ─────────────────────────────────────────────────────────────

// RestockLogRepo historial de reposiciones en memoria (solo inserción).
type RestockLogRepo struct{ d *data }

func (r *RestockLogRepo) Create(_ context.Context, log *entity.RestockLog) error {
	log.ID = r.d.next("restock_logs")
	r.d.restocks[log.ID] = *log
	return nil
}

func (r *RestockLogRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.RestockLog, error) {
	return r.List(ctx, repository.RestockFilter{ProductID: &productID})
}

func (r *RestockLogRepo) List(_ context.Context, filter repository.RestockFilter) ([]*entity.RestockLog, error) {
	list := []*entity.RestockLog{}
	for _, id := range sortedIDs(r.d.restocks) {
		l := r.d.restocks[id]
		if filter.ProductID != nil && l.ProductID != *filter.ProductID {
			continue
		}
		if filter.TenantID != nil || filter.RestrictWarehouses {
			p, ok := r.d.products[l.ProductID]
			if !ok {
				continue
			}
			if filter.TenantID != nil && p.TenantID != *filter.TenantID {
				continue
			}
			if filter.RestrictWarehouses && !containsID(filter.WarehouseIDs, p.WarehouseID) {
				continue
			}
		}
		list = append(list, &l)
	}
	return paginate(list, filter.Page), nil
}

func (r *RestockLogRepo) CountByProduct(_ context.Context, productID int64) (int, error) {
	n := 0
	for _, l := range r.d.restocks {
		if l.ProductID == productID {
			n++
		}
	}
	return n, nil
}
