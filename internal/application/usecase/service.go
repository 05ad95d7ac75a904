package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/application/permission"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/authz"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

// service base común: unidad de trabajo + motor de autorización.
// Cada operación corre en una sola transacción: carga del actor, lookup, decisión, validación y escritura.
type service struct {
	tx     repository.TxRunner
	engine *authz.Engine
}

func newService(tx repository.TxRunner, engine *authz.Engine) service {
	return service{tx: tx, engine: engine}
}

// run abre la transacción y recarga el actor desde el almacenamiento (nunca desde el token).
func (s service) run(ctx context.Context, actorID int64, fn func(r repository.Repositories, actor *entity.User) error) error {
	return s.tx.Run(ctx, func(r repository.Repositories) error {
		actor, err := r.Users.Get(ctx, entity.RefID(actorID))
		if err != nil {
			return fmt.Errorf("load actor: %w", err)
		}
		if actor == nil {
			return domain.Unauthorized("User %d is not authorized.", actorID)
		}
		return fn(r, actor)
	})
}

// accessFor nivel de acceso del actor sobre la bodega. Solo los regular_user consultan el registro;
// los administradores tienen acceso implícito.
func accessFor(ctx context.Context, r repository.Repositories, actor *entity.User, warehouseID int64) (entity.AccessLevel, error) {
	if actor.Role != entity.RoleRegularUser {
		return entity.AccessEdit, nil
	}
	return permission.NewRegistry(r.Permissions).Check(ctx, actor.ID, warehouseID)
}

// visibleWarehouses restringe listados de un regular_user a sus bodegas con al menos view.
// Para administradores devuelve (nil, false): sin restricción.
func visibleWarehouses(ctx context.Context, r repository.Repositories, actor *entity.User) ([]int64, bool, error) {
	if actor.Role != entity.RoleRegularUser {
		return nil, false, nil
	}
	ids, err := permission.NewRegistry(r.Permissions).Warehouses(ctx, actor.ID, entity.AccessView)
	if err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

// narrowWarehouses combina la restricción por permisos con un filtro explícito de bodega.
func narrowWarehouses(ids []int64, restricted bool, only *int64) ([]int64, bool) {
	if only == nil {
		return ids, restricted
	}
	if !restricted {
		return []int64{*only}, true
	}
	for _, id := range ids {
		if id == *only {
			return []int64{id}, true
		}
	}
	return []int64{}, true
}

// listTenant tenant efectivo de un listado: el pedido (validado por Decide) o el visible del actor.
func listTenant(actor *entity.User, requested *int64) *int64 {
	if requested != nil {
		return requested
	}
	return authz.VisibleTenant(actor)
}

func toPage(p dto.PageRequest) repository.Page {
	p.DefaultPage()
	return repository.Page{Limit: p.Limit, Offset: p.Offset}
}

func pageResponse(p dto.PageRequest, count int) dto.PageResponse {
	p.DefaultPage()
	return dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Count: count}
}

// ── validación de campos ─────────────────────────────────────────────────────

func requireText(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", domain.BadRequest("Field %s is required and cannot be empty.", field)
	}
	return v, nil
}

func normalizeEmail(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return "", domain.BadRequest("Field email is required and cannot be empty.")
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return "", domain.BadRequest("Email %s is not a valid address.", value)
	}
	return v, nil
}

func requireNonNegative(field string, value int64) error {
	if value < 0 {
		return domain.BadRequest("Field %s must be a not negative integer, got %d.", field, value)
	}
	return nil
}

func ptrInt64(v int64) *int64 { return &v }
