package usecase

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/authz"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

// RestockUseCase reposición de stock e historial.
type RestockUseCase struct {
	service
}

// NewRestockUseCase construye el caso de uso.
func NewRestockUseCase(tx repository.TxRunner, engine *authz.Engine) *RestockUseCase {
	return &RestockUseCase{service: newService(tx, engine)}
}

// Restock suma quantity al producto y agrega la entrada al historial en la misma transacción.
// La fila del producto queda bloqueada hasta el commit, así dos reposiciones concurrentes no
// pierden incrementos.
func (uc *RestockUseCase) Restock(ctx context.Context, actorID int64, ref entity.Ref, in dto.RestockRequest) (*dto.ProductResponse, error) {
	var out *dto.ProductResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		product, err := loadProduct(ctx, uc.engine, r, actor, ref, authz.ActionRestock, authz.ResourceProduct, true)
		if err != nil {
			return err
		}
		if in.Quantity <= 0 {
			return domain.RestockLogInvalidQuantity(in.Quantity)
		}
		if in.Quantity > math.MaxInt64-product.Quantity {
			return domain.RestockLogQuantityOverflow(in.Quantity, product.Quantity)
		}
		updated, err := r.Products.IncrementQuantity(ctx, product.ID, in.Quantity)
		if err != nil {
			return err
		}
		if updated == nil {
			return domain.ProductNotFound(ref)
		}
		log := &entity.RestockLog{
			UUID:        uuid.New().String(),
			ProductID:   product.ID,
			Quantity:    in.Quantity,
			Reason:      in.Reason,
			RestockedAt: time.Now(),
		}
		if err := r.Restocks.Create(ctx, log); err != nil {
			return err
		}
		out = toProductResponse(updated)
		return nil
	})
	return out, err
}

// History historial de reposiciones de un producto (mismas reglas que leer el producto).
func (uc *RestockUseCase) History(ctx context.Context, actorID int64, ref entity.Ref, page dto.PageRequest) (*dto.RestockLogListResponse, error) {
	var out *dto.RestockLogListResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		product, err := loadProduct(ctx, uc.engine, r, actor, ref, authz.ActionRead, authz.ResourceRestockLog, false)
		if err != nil {
			return err
		}
		out, err = uc.list(ctx, r, repository.RestockFilter{ProductID: ptrInt64(product.ID), Page: toPage(page)}, page)
		return err
	})
	return out, err
}

// List historial global de reposiciones visibles para el actor.
func (uc *RestockUseCase) List(ctx context.Context, actorID int64, tenantID *int64, page dto.PageRequest) (*dto.RestockLogListResponse, error) {
	var out *dto.RestockLogListResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		if err := uc.engine.Decide(authz.Request{
			Actor:    actor,
			Action:   authz.ActionList,
			Resource: authz.Resource{Type: authz.ResourceRestockLog, TenantID: tenantID},
		}); err != nil {
			return err
		}
		ids, restricted, err := visibleWarehouses(ctx, r, actor)
		if err != nil {
			return err
		}
		out, err = uc.list(ctx, r, repository.RestockFilter{
			TenantID:           listTenant(actor, tenantID),
			WarehouseIDs:       ids,
			RestrictWarehouses: restricted,
			Page:               toPage(page),
		}, page)
		return err
	})
	return out, err
}

func (uc *RestockUseCase) list(ctx context.Context, r repository.Repositories, filter repository.RestockFilter, page dto.PageRequest) (*dto.RestockLogListResponse, error) {
	logs, err := r.Restocks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RestockLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, dto.RestockLogResponse{
			ID:          l.ID,
			UUID:        l.UUID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			Reason:      l.Reason,
			RestockedAt: l.RestockedAt,
		})
	}
	return &dto.RestockLogListResponse{Items: items, Page: pageResponse(page, len(items))}, nil
}
