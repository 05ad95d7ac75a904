package usecase

import (
	"context"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/application/permission"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/authz"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

// PermissionUseCase administración de permisos de bodega.
type PermissionUseCase struct {
	service
}

// NewPermissionUseCase construye el caso de uso.
func NewPermissionUseCase(tx repository.TxRunner, engine *authz.Engine) *PermissionUseCase {
	return &PermissionUseCase{service: newService(tx, engine)}
}

func parseAccessLevel(s string) (entity.AccessLevel, error) {
	level, err := entity.ParseAccessLevel(s)
	if err != nil {
		return entity.AccessNone, domain.BadRequest("Invalid access level %q. Expected view or edit.", s)
	}
	return level, nil
}

// Grant concede a un regular_user acceso a una bodega de su tenant.
func (uc *PermissionUseCase) Grant(ctx context.Context, actorID int64, in dto.CreatePermissionRequest) (*dto.PermissionResponse, error) {
	level, err := parseAccessLevel(in.AccessLevel)
	if err != nil {
		return nil, err
	}
	var out *dto.PermissionResponse
	err = uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		warehouse, err := r.Warehouses.Get(ctx, entity.RefID(in.WarehouseID))
		if err != nil {
			return err
		}
		if warehouse == nil {
			return domain.WarehouseNotFound(in.WarehouseID)
		}
		if err := uc.engine.Decide(authz.Request{
			Actor:  actor,
			Action: authz.ActionCreate,
			Resource: authz.Resource{
				Type:        authz.ResourcePermission,
				TenantID:    ptrInt64(warehouse.TenantID),
				WarehouseID: warehouse.ID,
				OwnerID:     in.UserID,
			},
		}); err != nil {
			return err
		}
		target, err := r.Users.Get(ctx, entity.RefID(in.UserID))
		if err != nil {
			return err
		}
		if target == nil {
			return domain.UserNotFound(in.UserID)
		}
		if err := authz.ValidatePermissionTarget(actor, target, warehouse, in.TenantID); err != nil {
			return err
		}
		perm, err := permission.NewRegistry(r.Permissions).Grant(ctx, target.ID, warehouse.ID, warehouse.TenantID, level)
		if err != nil {
			return err
		}
		out = toPermissionResponse(perm)
		return nil
	})
	return out, err
}

func (uc *PermissionUseCase) getPermission(ctx context.Context, r repository.Repositories, actor *entity.User, ref entity.Ref, action authz.Action) (*entity.WarehousePermission, error) {
	perm, err := permission.NewRegistry(r.Permissions).Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := uc.engine.Decide(authz.Request{
		Actor:  actor,
		Action: action,
		Resource: authz.Resource{
			Type:        authz.ResourcePermission,
			Ref:         ref,
			TenantID:    ptrInt64(perm.TenantID),
			WarehouseID: perm.WarehouseID,
			OwnerID:     perm.UserID,
		},
	}); err != nil {
		return nil, err
	}
	return perm, nil
}

// Get obtiene un permiso. Un regular_user solo ve los propios.
func (uc *PermissionUseCase) Get(ctx context.Context, actorID int64, ref entity.Ref) (*dto.PermissionResponse, error) {
	var out *dto.PermissionResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		perm, err := uc.getPermission(ctx, r, actor, ref, authz.ActionRead)
		if err != nil {
			return err
		}
		out = toPermissionResponse(perm)
		return nil
	})
	return out, err
}

// Update cambia el nivel de acceso de un permiso existente.
func (uc *PermissionUseCase) Update(ctx context.Context, actorID int64, ref entity.Ref, in dto.UpdatePermissionRequest) (*dto.PermissionResponse, error) {
	level, err := parseAccessLevel(in.AccessLevel)
	if err != nil {
		return nil, err
	}
	var out *dto.PermissionResponse
	err = uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		perm, err := uc.getPermission(ctx, r, actor, ref, authz.ActionUpdate)
		if err != nil {
			return err
		}
		updated, err := permission.NewRegistry(r.Permissions).ChangeLevel(ctx, entity.RefID(perm.ID), level)
		if err != nil {
			return err
		}
		out = toPermissionResponse(updated)
		return nil
	})
	return out, err
}

// Revoke elimina un permiso.
func (uc *PermissionUseCase) Revoke(ctx context.Context, actorID int64, ref entity.Ref) error {
	return uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		perm, err := uc.getPermission(ctx, r, actor, ref, authz.ActionDelete)
		if err != nil {
			return err
		}
		return permission.NewRegistry(r.Permissions).Revoke(ctx, entity.RefID(perm.ID))
	})
}

// List lista permisos del tenant visible, filtrables por usuario y bodega.
// Para un regular_user el listado se limita siempre a sus propios permisos.
func (uc *PermissionUseCase) List(ctx context.Context, actorID int64, filter dto.PermissionListFilter, page dto.PageRequest) (*dto.PermissionListResponse, error) {
	var out *dto.PermissionListResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		var owner int64
		if filter.UserID != nil {
			owner = *filter.UserID
		}
		if err := uc.engine.Decide(authz.Request{
			Actor:    actor,
			Action:   authz.ActionList,
			Resource: authz.Resource{Type: authz.ResourcePermission, OwnerID: owner},
		}); err != nil {
			return err
		}
		userID := filter.UserID
		if actor.Role == entity.RoleRegularUser {
			userID = ptrInt64(actor.ID)
		}
		list, err := r.Permissions.List(ctx, repository.PermissionFilter{
			TenantID:    authz.VisibleTenant(actor),
			UserID:      userID,
			WarehouseID: filter.WarehouseID,
			Page:        toPage(page),
		})
		if err != nil {
			return err
		}
		items := make([]dto.PermissionResponse, 0, len(list))
		for _, p := range list {
			items = append(items, *toPermissionResponse(p))
		}
		out = &dto.PermissionListResponse{Items: items, Page: pageResponse(page, len(items))}
		return nil
	})
	return out, err
}

// ListForUser devuelve todos los permisos de un usuario visible para el actor.
func (uc *PermissionUseCase) ListForUser(ctx context.Context, actorID int64, ref entity.Ref) (*dto.PermissionListResponse, error) {
	var out *dto.PermissionListResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		user, err := r.Users.Get(ctx, ref)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.UserNotFound(ref)
		}
		if err := uc.engine.Decide(authz.Request{
			Actor:    actor,
			Action:   authz.ActionRead,
			Resource: authz.Resource{Type: authz.ResourceUser, Ref: ref, TenantID: user.TenantID, OwnerID: user.ID},
		}); err != nil {
			return err
		}
		if err := uc.engine.Decide(authz.Request{
			Actor:    actor,
			Action:   authz.ActionList,
			Resource: authz.Resource{Type: authz.ResourcePermission, TenantID: user.TenantID, OwnerID: user.ID},
		}); err != nil {
			return err
		}
		list, err := permission.NewRegistry(r.Permissions).ListForUser(ctx, user.ID)
		if err != nil {
			return err
		}
		items := make([]dto.PermissionResponse, 0, len(list))
		for _, p := range list {
			items = append(items, *toPermissionResponse(p))
		}
		out = &dto.PermissionListResponse{Items: items, Page: dto.PageResponse{Limit: len(items), Count: len(items)}}
		return nil
	})
	return out, err
}

func toPermissionResponse(p *entity.WarehousePermission) *dto.PermissionResponse {
	return &dto.PermissionResponse{
		ID:          p.ID,
		UUID:        p.UUID,
		UserID:      p.UserID,
		WarehouseID: p.WarehouseID,
		TenantID:    p.TenantID,
		AccessLevel: string(p.AccessLevel),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
