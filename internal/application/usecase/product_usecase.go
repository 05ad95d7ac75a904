package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/authz"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos.
// El tenant del producto se deriva siempre de su bodega.
type ProductUseCase struct {
	service
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx repository.TxRunner, engine *authz.Engine) *ProductUseCase {
	return &ProductUseCase{service: newService(tx, engine)}
}

// Create crea un producto en la bodega indicada. SKU único por tenant.
func (uc *ProductUseCase) Create(ctx context.Context, actorID int64, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	var out *dto.ProductResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		warehouse, err := uc.targetWarehouse(ctx, r, actor, in.WarehouseID)
		if err != nil {
			return err
		}
		name, err := requireText("name", in.Name)
		if err != nil {
			return err
		}
		sku, err := requireText("sku", in.SKU)
		if err != nil {
			return err
		}
		if err := requireNonNegative("quantity", in.Quantity); err != nil {
			return err
		}
		if err := requirePrice(in.UnitPrice); err != nil {
			return err
		}
		if err := uc.ensureSKUFree(ctx, r, warehouse.TenantID, sku, 0); err != nil {
			return err
		}
		now := time.Now()
		product := &entity.Product{
			UUID:        uuid.New().String(),
			TenantID:    warehouse.TenantID,
			WarehouseID: warehouse.ID,
			Name:        name,
			SKU:         sku,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		out = toProductResponse(product)
		return nil
	})
	return out, err
}

// targetWarehouse bodega destino de una escritura (alta o traslado): requiere edit para regular_user.
func (uc *ProductUseCase) targetWarehouse(ctx context.Context, r repository.Repositories, actor *entity.User, warehouseID int64) (*entity.Warehouse, error) {
	if warehouseID <= 0 {
		return nil, domain.BadRequest("Field warehouse_id is required.")
	}
	warehouse, err := r.Warehouses.Get(ctx, entity.RefID(warehouseID))
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.WarehouseNotFound(warehouseID)
	}
	access, err := accessFor(ctx, r, actor, warehouse.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.engine.Decide(authz.Request{
		Actor:  actor,
		Action: authz.ActionCreate,
		Resource: authz.Resource{
			Type:        authz.ResourceProduct,
			TenantID:    ptrInt64(warehouse.TenantID),
			WarehouseID: warehouse.ID,
		},
		Access: access,
	}); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// loadProduct lookup + decisión sobre un producto existente. forUpdate bloquea la fila.
func loadProduct(ctx context.Context, engine *authz.Engine, r repository.Repositories, actor *entity.User, ref entity.Ref, action authz.Action, resource authz.ResourceType, forUpdate bool) (*entity.Product, error) {
	get := r.Products.Get
	if forUpdate {
		get = r.Products.GetForUpdate
	}
	product, err := get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ProductNotFound(ref)
	}
	access, err := accessFor(ctx, r, actor, product.WarehouseID)
	if err != nil {
		return nil, err
	}
	if err := engine.Decide(authz.Request{
		Actor:  actor,
		Action: action,
		Resource: authz.Resource{
			Type:        resource,
			Ref:         ref,
			TenantID:    ptrInt64(product.TenantID),
			WarehouseID: product.WarehouseID,
		},
		Access: access,
	}); err != nil {
		return nil, err
	}
	return product, nil
}

// Get obtiene un producto por ID o UUID.
func (uc *ProductUseCase) Get(ctx context.Context, actorID int64, ref entity.Ref) (*dto.ProductResponse, error) {
	var out *dto.ProductResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		product, err := loadProduct(ctx, uc.engine, r, actor, ref, authz.ActionRead, authz.ResourceProduct, false)
		if err != nil {
			return err
		}
		out = toProductResponse(product)
		return nil
	})
	return out, err
}

// List lista productos visibles, opcionalmente filtrados por tenant y bodega.
func (uc *ProductUseCase) List(ctx context.Context, actorID int64, filter dto.ProductListFilter, page dto.PageRequest) (*dto.ProductListResponse, error) {
	var out *dto.ProductListResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		if err := uc.engine.Decide(authz.Request{
			Actor:    actor,
			Action:   authz.ActionList,
			Resource: authz.Resource{Type: authz.ResourceProduct, TenantID: filter.TenantID},
		}); err != nil {
			return err
		}
		ids, restricted, err := visibleWarehouses(ctx, r, actor)
		if err != nil {
			return err
		}
		ids, restricted = narrowWarehouses(ids, restricted, filter.WarehouseID)
		items, err := uc.list(ctx, r, repository.ProductFilter{
			TenantID:           listTenant(actor, filter.TenantID),
			WarehouseIDs:       ids,
			RestrictWarehouses: restricted,
			Page:               toPage(page),
		})
		if err != nil {
			return err
		}
		out = &dto.ProductListResponse{Items: items, Page: pageResponse(page, len(items))}
		return nil
	})
	return out, err
}

// ListByWarehouse lista los productos de una bodega (view requerido para regular_user).
func (uc *ProductUseCase) ListByWarehouse(ctx context.Context, actorID int64, ref entity.Ref, page dto.PageRequest) (*dto.ProductListResponse, error) {
	var out *dto.ProductListResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		warehouse, err := loadWarehouse(ctx, uc.engine, r, actor, ref, authz.ActionRead, authz.ResourceProduct)
		if err != nil {
			return err
		}
		items, err := uc.list(ctx, r, repository.ProductFilter{
			TenantID:           ptrInt64(warehouse.TenantID),
			WarehouseIDs:       []int64{warehouse.ID},
			RestrictWarehouses: true,
			Page:               toPage(page),
		})
		if err != nil {
			return err
		}
		out = &dto.ProductListResponse{Items: items, Page: pageResponse(page, len(items))}
		return nil
	})
	return out, err
}

func (uc *ProductUseCase) list(ctx context.Context, r repository.Repositories, filter repository.ProductFilter) ([]dto.ProductResponse, error) {
	list, err := r.Products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Update actualización parcial sobre la fila bloqueada, así una reposición concurrente no se pierde
// al escribir quantity de vuelta. Si cambia la bodega, el producto se autoriza también contra la
// bodega destino y su tenant se re-deriva de ella.
func (uc *ProductUseCase) Update(ctx context.Context, actorID int64, ref entity.Ref, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var out *dto.ProductResponse
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		product, err := loadProduct(ctx, uc.engine, r, actor, ref, authz.ActionUpdate, authz.ResourceProduct, true)
		if err != nil {
			return err
		}
		if in.WarehouseID != nil && *in.WarehouseID != product.WarehouseID {
			warehouse, err := uc.targetWarehouse(ctx, r, actor, *in.WarehouseID)
			if err != nil {
				return err
			}
			product.WarehouseID = warehouse.ID
			product.TenantID = warehouse.TenantID
		}
		if in.Name != nil {
			name, err := requireText("name", *in.Name)
			if err != nil {
				return err
			}
			product.Name = name
		}
		if in.SKU != nil {
			sku, err := requireText("sku", *in.SKU)
			if err != nil {
				return err
			}
			product.SKU = sku
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Quantity != nil {
			if err := requireNonNegative("quantity", *in.Quantity); err != nil {
				return err
			}
			product.Quantity = *in.Quantity
		}
		if in.UnitPrice != nil {
			if err := requirePrice(*in.UnitPrice); err != nil {
				return err
			}
			product.UnitPrice = *in.UnitPrice
		}
		if err := uc.ensureSKUFree(ctx, r, product.TenantID, product.SKU, product.ID); err != nil {
			return err
		}
		product.UpdatedAt = time.Now()
		if err := r.Products.Update(ctx, product); err != nil {
			return err
		}
		out = toProductResponse(product)
		return nil
	})
	return out, err
}

// Delete elimina un producto sin historial de reposiciones.
func (uc *ProductUseCase) Delete(ctx context.Context, actorID int64, ref entity.Ref) error {
	return uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		product, err := loadProduct(ctx, uc.engine, r, actor, ref, authz.ActionDelete, authz.ResourceProduct, true)
		if err != nil {
			return err
		}
		n, err := r.Restocks.CountByProduct(ctx, product.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ProductHasRestockHistory(ref)
		}
		return r.Products.Delete(ctx, product.ID)
	})
}

// VerifyTenantConsistency reporta los productos cuyo tenant no coincide con el de su bodega.
// Solo system_admin.
func (uc *ProductUseCase) VerifyTenantConsistency(ctx context.Context, actorID int64) (*dto.ConsistencyReport, error) {
	var out *dto.ConsistencyReport
	err := uc.run(ctx, actorID, func(r repository.Repositories, actor *entity.User) error {
		if !actor.IsSystemAdmin() {
			return domain.Forbidden("SystemAdminRequired", "Only system admins can verify tenant consistency.")
		}
		list, err := r.Products.ListTenantMismatches(ctx)
		if err != nil {
			return err
		}
		mismatches := make([]dto.ProductResponse, 0, len(list))
		for _, p := range list {
			mismatches = append(mismatches, *toProductResponse(p))
		}
		out = &dto.ConsistencyReport{Consistent: len(mismatches) == 0, Mismatches: mismatches}
		return nil
	})
	return out, err
}

func (uc *ProductUseCase) ensureSKUFree(ctx context.Context, r repository.Repositories, tenantID int64, sku string, exceptID int64) error {
	existing, err := r.Products.GetByTenantAndSKU(ctx, tenantID, sku)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return domain.ProductSKUAlreadyExist(sku)
	}
	return nil
}

// maxUnitPrice límite exclusivo de unit_price: la columna es NUMERIC(14,2).
var maxUnitPrice = decimal.New(1, 12)

func requirePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return domain.BadRequest("Field unit_price must be a not negative number, got %s.", price.String())
	}
	if price.Round(2).GreaterThanOrEqual(maxUnitPrice) {
		return domain.BadRequest("Field unit_price must be lower than %s, got %s.", maxUnitPrice.String(), price.String())
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		UUID:        p.UUID,
		TenantID:    p.TenantID,
		WarehouseID: p.WarehouseID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		Quantity:    p.Quantity,
		UnitPrice:   p.UnitPrice,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
