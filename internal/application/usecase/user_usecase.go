package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-tenants/internal/application/auth"
	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/authz"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	service
}

// NewUserUseCase construye el caso de uso con la unidad de trabajo y el motor de autorización.
func NewUserUseCase(tx repository.TxRunner, engine *authz.Engine) *UserUseCase {
	return &UserUseCase{service: newService(tx, engine)}
}

// Create crea un usuario. Si el rol requiere tenant y el payload no lo trae, se usa el del actor.
func (uc *UserUseCase) Create(ctx context.Context, actorID int64, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, domain.BadRequest("Invalid role %q. Expected system_admin, tenant_admin or regular_user.", in.Role)
	}
	var out *dto.UserResponse
	err = uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		tenantID := in.TenantID
		if tenantID == nil && role.RequiresTenant() && actor.TenantID != nil {
			tenantID = ptrInt64(*actor.TenantID)
		}
		if err := uc.engine.Decide(authz.Request{
			Actor:    actor,
			Action:   authz.ActionCreate,
			Resource: authz.Resource{Type: authz.ResourceUser, TenantID: tenantID},
			User:     &authz.UserChange{Role: role, TenantID: tenantID},
		}); err != nil {
			return err
		}
		if err := requireTenant(ctx, r, tenantID); err != nil {
			return err
		}
		name, err := requireText("name", in.Name)
		if err != nil {
			return err
		}
		email, err := normalizeEmail(in.Email)
		if err != nil {
			return err
		}
		if err := uc.ensureEmailFree(ctx, r, email, 0); err != nil {
			return err
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return err
		}
		now := time.Now()
		user := &entity.User{
			UUID:         uuid.New().String(),
			TenantID:     tenantID,
			Name:         name,
			Email:        email,
			Phone:        in.Phone,
			Role:         role,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		out = toUserResponse(user)
		return nil
	})
	return out, err
}

// Me devuelve el usuario autenticado.
func (uc *UserUseCase) Me(ctx context.Context, actorID int64) (*dto.UserResponse, error) {
	var out *dto.UserResponse
	err := uc.run(ctx, actorID, func(_ repository.Repositories, actor *entity.User) error {
		out = toUserResponse(actor)
		return nil
	})
	return out, err
}

func (uc *UserUseCase) getUser(ctx context.Context, r repository.Repositories, actor *entity.User, ref entity.Ref, action authz.Action, change *authz.UserChange) (*entity.User, error) {
	user, err := r.Users.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.UserNotFound(ref)
	}
	if err := uc.engine.Decide(authz.Request{
		Actor:    actor,
		Action:   action,
		Resource: authz.Resource{Type: authz.ResourceUser, Ref: ref, TenantID: user.TenantID, OwnerID: user.ID},
		User:     change,
	}); err != nil {
		return nil, err
	}
	return user, nil
}

// Get obtiene un usuario por ID o UUID.
func (uc *UserUseCase) Get(ctx context.Context, actorID int64, ref entity.Ref) (*dto.UserResponse, error) {
	var out *dto.UserResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		user, err := uc.getUser(ctx, r, actor, ref, authz.ActionRead, nil)
		if err != nil {
			return err
		}
		out = toUserResponse(user)
		return nil
	})
	return out, err
}

// List lista usuarios del tenant visible (o del tenant pedido, si el actor puede verlo).
func (uc *UserUseCase) List(ctx context.Context, actorID int64, tenantID *int64, role string, page dto.PageRequest) (*dto.UserListResponse, error) {
	if role != "" {
		if _, err := entity.ParseRole(role); err != nil {
			return nil, domain.BadRequest("Invalid role %q. Expected system_admin, tenant_admin or regular_user.", role)
		}
	}
	var out *dto.UserListResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		if err := uc.engine.Decide(authz.Request{
			Actor:    actor,
			Action:   authz.ActionList,
			Resource: authz.Resource{Type: authz.ResourceUser, TenantID: tenantID},
		}); err != nil {
			return err
		}
		list, err := r.Users.List(ctx, repository.UserFilter{
			TenantID: listTenant(actor, tenantID),
			Role:     role,
			Page:     toPage(page),
		})
		if err != nil {
			return err
		}
		items := make([]dto.UserResponse, 0, len(list))
		for _, u := range list {
			items = append(items, *toUserResponse(u))
		}
		out = &dto.UserListResponse{Items: items, Page: pageResponse(page, len(items))}
		return nil
	})
	return out, err
}

// Update actualización parcial. Rol y tenant se fusionan con el estado actual antes de decidir;
// promover a system_admin sin tenant explícito desasocia al usuario de su tenant.
// Si cambia el rol o el tenant, los permisos de bodega del usuario dejan de ser válidos y se eliminan.
func (uc *UserUseCase) Update(ctx context.Context, actorID int64, ref entity.Ref, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var role entity.Role
	if in.Role != nil {
		parsed, err := entity.ParseRole(*in.Role)
		if err != nil {
			return nil, domain.BadRequest("Invalid role %q. Expected system_admin, tenant_admin or regular_user.", *in.Role)
		}
		role = parsed
	}
	var out *dto.UserResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		current, err := r.Users.Get(ctx, ref)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.UserNotFound(ref)
		}
		change := mergeUserChange(current, role, in.TenantID, in.Fields())
		user, err := uc.getUser(ctx, r, actor, ref, authz.ActionUpdate, change)
		if err != nil {
			return err
		}
		tenantChanged := !sameTenant(user.TenantID, change.TenantID)
		if tenantChanged && change.TenantID != nil {
			// El tenant destino también debe ser gestionable por el actor.
			if err := uc.engine.Decide(authz.Request{
				Actor:    actor,
				Action:   authz.ActionUpdate,
				Resource: authz.Resource{Type: authz.ResourceUser, Ref: ref, TenantID: change.TenantID, OwnerID: user.ID},
				User:     change,
			}); err != nil {
				return err
			}
			if err := requireTenant(ctx, r, change.TenantID); err != nil {
				return err
			}
		}
		if in.Name != nil {
			name, err := requireText("name", *in.Name)
			if err != nil {
				return err
			}
			user.Name = name
		}
		if in.Email != nil {
			email, err := normalizeEmail(*in.Email)
			if err != nil {
				return err
			}
			if err := uc.ensureEmailFree(ctx, r, email, user.ID); err != nil {
				return err
			}
			user.Email = email
		}
		if in.Phone != nil {
			user.Phone = *in.Phone
		}
		if in.Password != nil {
			hash, err := auth.HashPassword(*in.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}
		if tenantChanged || change.Role != user.Role {
			if err := r.Permissions.DeleteByUser(ctx, user.ID); err != nil {
				return err
			}
		}
		user.Role = change.Role
		user.TenantID = change.TenantID
		user.UpdatedAt = time.Now()
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		out = toUserResponse(user)
		return nil
	})
	return out, err
}

// Delete elimina un usuario y sus permisos de bodega.
func (uc *UserUseCase) Delete(ctx context.Context, actorID int64, ref entity.Ref) error {
	return uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		user, err := uc.getUser(ctx, r, actor, ref, authz.ActionDelete, nil)
		if err != nil {
			return err
		}
		if err := r.Permissions.DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		return r.Users.Delete(ctx, user.ID)
	})
}

func (uc *UserUseCase) ensureEmailFree(ctx context.Context, r repository.Repositories, email string, exceptID int64) error {
	existing, err := r.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return domain.UserEmailAlreadyExist(email)
	}
	return nil
}

// mergeUserChange rol y tenant resultantes de aplicar la petición sobre el usuario actual.
func mergeUserChange(current *entity.User, role entity.Role, tenantID *int64, fields []string) *authz.UserChange {
	change := &authz.UserChange{Role: current.Role, TenantID: current.TenantID, Fields: fields}
	if role != "" {
		change.Role = role
	}
	if tenantID != nil {
		change.TenantID = ptrInt64(*tenantID)
	} else if change.Role == entity.RoleSystemAdmin {
		change.TenantID = nil
	}
	return change
}

// requireTenant verifica que el tenant referenciado en el payload exista.
func requireTenant(ctx context.Context, r repository.Repositories, tenantID *int64) error {
	if tenantID == nil {
		return nil
	}
	tenant, err := r.Tenants.Get(ctx, entity.RefID(*tenantID))
	if err != nil {
		return err
	}
	if tenant == nil {
		return domain.TenantReferenceInvalid(*tenantID)
	}
	return nil
}

func sameTenant(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		UUID:      u.UUID,
		TenantID:  u.TenantID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
