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

// TenantUseCase casos de uso CRUD para tenants.
type TenantUseCase struct {
	service
}

// NewTenantUseCase construye el caso de uso.
func NewTenantUseCase(tx repository.TxRunner, engine *authz.Engine) *TenantUseCase {
	return &TenantUseCase{service: newService(tx, engine)}
}

// Create crea un tenant. Nombre único en todo el sistema.
func (uc *TenantUseCase) Create(ctx context.Context, actorID int64, in dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	var out *dto.TenantResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		if err := uc.engine.Decide(authz.Request{
			Actor:    actor,
			Action:   authz.ActionCreate,
			Resource: authz.Resource{Type: authz.ResourceTenant},
		}); err != nil {
			return err
		}
		name, err := requireText("name", in.Name)
		if err != nil {
			return err
		}
		existing, err := r.Tenants.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.TenantNameAlreadyExist(name)
		}
		now := time.Now()
		tenant := &entity.Tenant{
			UUID:         uuid.New().String(),
			Name:         name,
			ContactEmail: in.ContactEmail,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := r.Tenants.Create(ctx, tenant); err != nil {
			return err
		}
		out = toTenantResponse(tenant)
		return nil
	})
	return out, err
}

// getTenant lookup + decisión para operaciones sobre un tenant existente.
func (uc *TenantUseCase) getTenant(ctx context.Context, r repository.Repositories, actor *entity.User, ref entity.Ref, action authz.Action) (*entity.Tenant, error) {
	tenant, err := r.Tenants.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.TenantNotFound(ref)
	}
	if err := uc.engine.Decide(authz.Request{
		Actor:    actor,
		Action:   action,
		Resource: authz.Resource{Type: authz.ResourceTenant, Ref: ref, TenantID: ptrInt64(tenant.ID)},
	}); err != nil {
		return nil, err
	}
	return tenant, nil
}

// Get obtiene un tenant por ID o UUID.
func (uc *TenantUseCase) Get(ctx context.Context, actorID int64, ref entity.Ref) (*dto.TenantResponse, error) {
	var out *dto.TenantResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		tenant, err := uc.getTenant(ctx, r, actor, ref, authz.ActionRead)
		if err != nil {
			return err
		}
		out = toTenantResponse(tenant)
		return nil
	})
	return out, err
}

// List lista los tenants visibles: todos para system_admin, el propio para el resto.
func (uc *TenantUseCase) List(ctx context.Context, actorID int64, page dto.PageRequest) (*dto.TenantListResponse, error) {
	var out *dto.TenantListResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		if err := uc.engine.Decide(authz.Request{
			Actor:    actor,
			Action:   authz.ActionList,
			Resource: authz.Resource{Type: authz.ResourceTenant},
		}); err != nil {
			return err
		}
		list, err := r.Tenants.List(ctx, repository.TenantFilter{TenantID: authz.VisibleTenant(actor), Page: toPage(page)})
		if err != nil {
			return err
		}
		items := make([]dto.TenantResponse, 0, len(list))
		for _, t := range list {
			items = append(items, *toTenantResponse(t))
		}
		out = &dto.TenantListResponse{Items: items, Page: pageResponse(page, len(items))}
		return nil
	})
	return out, err
}

// Update actualiza parcialmente un tenant.
func (uc *TenantUseCase) Update(ctx context.Context, actorID int64, ref entity.Ref, in dto.UpdateTenantRequest) (*dto.TenantResponse, error) {
	var out *dto.TenantResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		tenant, err := uc.getTenant(ctx, r, actor, ref, authz.ActionUpdate)
		if err != nil {
			return err
		}
		if in.Name != nil {
			name, err := requireText("name", *in.Name)
			if err != nil {
				return err
			}
			if name != tenant.Name {
				existing, err := r.Tenants.GetByName(ctx, name)
				if err != nil {
					return err
				}
				if existing != nil {
					return domain.TenantNameAlreadyExist(name)
				}
			}
			tenant.Name = name
		}
		if in.ContactEmail != nil {
			tenant.ContactEmail = *in.ContactEmail
		}
		tenant.UpdatedAt = time.Now()
		if err := r.Tenants.Update(ctx, tenant); err != nil {
			return err
		}
		out = toTenantResponse(tenant)
		return nil
	})
	return out, err
}

// Delete elimina un tenant sin usuarios ni bodegas.
func (uc *TenantUseCase) Delete(ctx context.Context, actorID int64, ref entity.Ref) error {
	return uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		tenant, err := uc.getTenant(ctx, r, actor, ref, authz.ActionDelete)
		if err != nil {
			return err
		}
		n, err := r.Tenants.CountDependents(ctx, tenant.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.TenantHasDependents(ref)
		}
		return r.Tenants.Delete(ctx, tenant.ID)
	})
}

func toTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{
		ID:           t.ID,
		UUID:         t.UUID,
		Name:         t.Name,
		ContactEmail: t.ContactEmail,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
