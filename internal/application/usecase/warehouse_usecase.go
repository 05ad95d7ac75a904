package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/authz"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	service
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(tx repository.TxRunner, engine *authz.Engine) *WarehouseUseCase {
	return &WarehouseUseCase{service: newService(tx, engine)}
}

// Create crea una nueva bodega en el tenant del payload (system_admin) o en el del actor.
func (uc *WarehouseUseCase) Create(ctx context.Context, actorID int64, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	var out *dto.WarehouseResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		tenantID := in.TenantID
		if tenantID == nil && actor.TenantID != nil {
			tenantID = ptrInt64(*actor.TenantID)
		}
		if err := uc.engine.Decide(authz.Request{
			Actor:    actor,
			Action:   authz.ActionCreate,
			Resource: authz.Resource{Type: authz.ResourceWarehouse, TenantID: tenantID},
		}); err != nil {
			return err
		}
		if tenantID == nil {
			return domain.BadRequest("Field tenant_id is required.")
		}
		if err := requireTenant(ctx, r, tenantID); err != nil {
			return err
		}
		name, err := requireText("name", in.Name)
		if err != nil {
			return err
		}
		if err := requireNonNegative("capacity", in.Capacity); err != nil {
			return err
		}
		now := time.Now()
		warehouse := &entity.Warehouse{
			UUID:      uuid.New().String(),
			TenantID:  *tenantID,
			Name:      name,
			Location:  in.Location,
			Capacity:  in.Capacity,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.Warehouses.Create(ctx, warehouse); err != nil {
			return err
		}
		out = toWarehouseResponse(warehouse)
		return nil
	})
	return out, err
}

func (uc *WarehouseUseCase) getWarehouse(ctx context.Context, r repository.Repositories, actor *entity.User, ref entity.Ref, action authz.Action) (*entity.Warehouse, error) {
	return loadWarehouse(ctx, uc.engine, r, actor, ref, action, authz.ResourceWarehouse)
}

// loadWarehouse lookup + decisión sobre una bodega. resource permite decidir sobre los productos
// de la bodega (listado por bodega) con las reglas de producto.
func loadWarehouse(ctx context.Context, engine *authz.Engine, r repository.Repositories, actor *entity.User, ref entity.Ref, action authz.Action, resource authz.ResourceType) (*entity.Warehouse, error) {
	warehouse, err := r.Warehouses.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.WarehouseNotFound(ref)
	}
	access, err := accessFor(ctx, r, actor, warehouse.ID)
	if err != nil {
		return nil, err
	}
	if err := engine.Decide(authz.Request{
		Actor:  actor,
		Action: action,
		Resource: authz.Resource{
			Type:        resource,
			Ref:         ref,
			TenantID:    ptrInt64(warehouse.TenantID),
			WarehouseID: warehouse.ID,
		},
		Access: access,
	}); err != nil {
		if resource != authz.ResourceWarehouse && domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.WarehouseNotFound(ref)
		}
		return nil, err
	}
	return warehouse, nil
}

// Get obtiene una bodega por ID o UUID.
func (uc *WarehouseUseCase) Get(ctx context.Context, actorID int64, ref entity.Ref) (*dto.WarehouseResponse, error) {
	var out *dto.WarehouseResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		warehouse, err := uc.getWarehouse(ctx, r, actor, ref, authz.ActionRead)
		if err != nil {
			return err
		}
		out = toWarehouseResponse(warehouse)
		return nil
	})
	return out, err
}

// List lista bodegas. Un regular_user solo ve las bodegas en las que tiene permiso.
func (uc *WarehouseUseCase) List(ctx context.Context, actorID int64, tenantID *int64, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	var out *dto.WarehouseListResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		if err := uc.engine.Decide(authz.Request{
			Actor:    actor,
			Action:   authz.ActionList,
			Resource: authz.Resource{Type: authz.ResourceWarehouse, TenantID: tenantID},
		}); err != nil {
			return err
		}
		ids, restricted, err := visibleWarehouses(ctx, r, actor)
		if err != nil {
			return err
		}
		list, err := r.Warehouses.List(ctx, repository.WarehouseFilter{
			TenantID:    listTenant(actor, tenantID),
			IDs:         ids,
			RestrictIDs: restricted,
			Page:        toPage(page),
		})
		if err != nil {
			return err
		}
		items := make([]dto.WarehouseResponse, 0, len(list))
		for _, w := range list {
			items = append(items, *toWarehouseResponse(w))
		}
		out = &dto.WarehouseListResponse{Items: items, Page: pageResponse(page, len(items))}
		return nil
	})
	return out, err
}

// Update actualiza parcialmente una bodega. El tenant no cambia.
func (uc *WarehouseUseCase) Update(ctx context.Context, actorID int64, ref entity.Ref, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	var out *dto.WarehouseResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		warehouse, err := uc.getWarehouse(ctx, r, actor, ref, authz.ActionUpdate)
		if err != nil {
			return err
		}
		if in.Name != nil {
			name, err := requireText("name", *in.Name)
			if err != nil {
				return err
			}
			warehouse.Name = name
		}
		if in.Location != nil {
			warehouse.Location = *in.Location
		}
		if in.Capacity != nil {
			if err := requireNonNegative("capacity", *in.Capacity); err != nil {
				return err
			}
			warehouse.Capacity = *in.Capacity
		}
		warehouse.UpdatedAt = time.Now()
		if err := r.Warehouses.Update(ctx, warehouse); err != nil {
			return err
		}
		out = toWarehouseResponse(warehouse)
		return nil
	})
	return out, err
}

// Delete elimina una bodega vacía junto con sus permisos.
func (uc *WarehouseUseCase) Delete(ctx context.Context, actorID int64, ref entity.Ref) error {
	return uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		warehouse, err := uc.getWarehouse(ctx, r, actor, ref, authz.ActionDelete)
		if err != nil {
			return err
		}
		n, err := r.Warehouses.CountProducts(ctx, warehouse.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.WarehouseHasProducts(ref)
		}
		if err := r.Permissions.DeleteByWarehouse(ctx, warehouse.ID); err != nil {
			return err
		}
		return r.Warehouses.Delete(ctx, warehouse.ID)
	})
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		UUID:      w.UUID,
		TenantID:  w.TenantID,
		Name:      w.Name,
		Location:  w.Location,
		Capacity:  w.Capacity,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
