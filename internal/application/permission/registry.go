// Package permission administra los permisos de bodega de los regular_user.
// Registry es la única fuente de verdad que consultan los servicios antes de leer o escribir
// productos en nombre de un regular_user.
package permission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

// Registry opera sobre un PermissionRepository, normalmente atado a la transacción en curso.
type Registry struct {
	repo repository.PermissionRepository
}

// NewRegistry construye el registro sobre el repositorio dado.
func NewRegistry(repo repository.PermissionRepository) *Registry {
	return &Registry{repo: repo}
}

// Grant crea el permiso (user, warehouse). Falla con WarehousePermissionAlreadyExist si el par ya
// tiene permiso; la restricción única del almacenamiento cubre la carrera entre chequeo e inserción.
func (r *Registry) Grant(ctx context.Context, userID, warehouseID, tenantID int64, level entity.AccessLevel) (*entity.WarehousePermission, error) {
	if level != entity.AccessView && level != entity.AccessEdit {
		return nil, domain.BadRequest("Invalid access level %q. Expected view or edit.", level)
	}
	existing, err := r.repo.GetByUserAndWarehouse(ctx, userID, warehouseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.WarehousePermissionAlreadyExist(userID, warehouseID)
	}
	now := time.Now()
	perm := &entity.WarehousePermission{
		UUID:        uuid.New().String(),
		UserID:      userID,
		WarehouseID: warehouseID,
		TenantID:    tenantID,
		AccessLevel: level,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.repo.Create(ctx, perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// Get obtiene un permiso por referencia o WarehousePermissionNotFound.
func (r *Registry) Get(ctx context.Context, ref entity.Ref) (*entity.WarehousePermission, error) {
	perm, err := r.repo.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if perm == nil {
		return nil, domain.WarehousePermissionNotFound(ref)
	}
	return perm, nil
}

// Revoke elimina el permiso indicado.
func (r *Registry) Revoke(ctx context.Context, ref entity.Ref) error {
	perm, err := r.Get(ctx, ref)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, perm.ID); err != nil {
		return fmt.Errorf("revoke permission %d: %w", perm.ID, err)
	}
	return nil
}

// ChangeLevel cambia el nivel de acceso de un permiso existente.
func (r *Registry) ChangeLevel(ctx context.Context, ref entity.Ref, level entity.AccessLevel) (*entity.WarehousePermission, error) {
	if level != entity.AccessView && level != entity.AccessEdit {
		return nil, domain.BadRequest("Invalid access level %q. Expected view or edit.", level)
	}
	perm, err := r.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	perm.AccessLevel = level
	perm.UpdatedAt = time.Now()
	if err := r.repo.Update(ctx, perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// ListForUser devuelve los permisos del usuario.
func (r *Registry) ListForUser(ctx context.Context, userID int64) ([]*entity.WarehousePermission, error) {
	return r.repo.ListByUser(ctx, userID)
}

// Check devuelve el nivel de acceso del usuario sobre la bodega, o AccessNone.
// Hay a lo sumo un permiso por par (usuario, bodega).
func (r *Registry) Check(ctx context.Context, userID, warehouseID int64) (entity.AccessLevel, error) {
	perm, err := r.repo.GetByUserAndWarehouse(ctx, userID, warehouseID)
	if err != nil {
		return entity.AccessNone, err
	}
	if perm == nil {
		return entity.AccessNone, nil
	}
	return perm.AccessLevel, nil
}

// Warehouses devuelve las bodegas sobre las que el usuario tiene al menos el nivel min.
func (r *Registry) Warehouses(ctx context.Context, userID int64, min entity.AccessLevel) ([]int64, error) {
	perms, err := r.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(perms))
	for _, p := range perms {
		if p.AccessLevel.Allows(min) {
			ids = append(ids, p.WarehouseID)
		}
	}
	return ids, nil
}
