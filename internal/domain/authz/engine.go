// Package authz contiene el motor de autorización: decisiones puras sobre quién puede hacer qué
// sobre qué recurso. No accede a almacenamiento; quien llama aporta el contexto (tenant del
// recurso, nivel de acceso del actor sobre la bodega, payload de usuario).
package authz

import (
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
)

// Action operación solicitada sobre un recurso.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionList    Action = "list"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionRestock Action = "restock"
)

// IsWrite informa si la acción modifica datos.
func (a Action) IsWrite() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionRestock:
		return true
	}
	return false
}

// ResourceType tipo de recurso protegido.
type ResourceType string

const (
	ResourceTenant     ResourceType = "tenant"
	ResourceUser       ResourceType = "user"
	ResourceWarehouse  ResourceType = "warehouse"
	ResourceProduct    ResourceType = "product"
	ResourcePermission ResourceType = "permission"
	ResourceRestockLog ResourceType = "restock_log"
)

// Resource describe el objetivo de la decisión.
type Resource struct {
	Type ResourceType
	// Ref identificador usado en los mensajes de error (id o uuid).
	Ref any
	// TenantID tenant dueño del recurso. En create es el tenant destino; en list el filtro pedido.
	TenantID *int64
	// WarehouseID bodega a la que aplica el nivel de acceso (productos, reposiciones, bodegas).
	WarehouseID int64
	// OwnerID usuario objetivo: el propio usuario (users) o el titular del permiso (permissions).
	OwnerID int64
}

// UserChange payload de creación/actualización de usuario ya fusionado con el estado actual.
type UserChange struct {
	Role     entity.Role
	TenantID *int64
	// Fields campos presentes en la petición (solo update).
	Fields []string
}

// Request entrada de Engine.Decide.
type Request struct {
	Actor    *entity.User
	Action   Action
	Resource Resource
	// Access nivel del actor sobre Resource.WarehouseID según el registro de permisos.
	// Solo se consulta para regular_user.
	Access entity.AccessLevel
	User   *UserChange
}

type rule func(r Request) error

// Engine decide por tabla: rol -> tipo de recurso -> regla.
type Engine struct {
	policies map[entity.Role]map[ResourceType]rule
}

// NewEngine construye el motor con las políticas de los tres roles.
func NewEngine() *Engine {
	return &Engine{
		policies: map[entity.Role]map[ResourceType]rule{
			entity.RoleSystemAdmin: systemAdminPolicy(),
			entity.RoleTenantAdmin: tenantAdminPolicy(),
			entity.RoleRegularUser: regularUserPolicy(),
		},
	}
}

// Decide devuelve nil si la operación está permitida; en otro caso un *domain.Error
// (Unauthorized, Forbidden, NotFound o BadRequest) que se propaga sin cambios.
func (e *Engine) Decide(r Request) error {
	if r.Actor == nil {
		return domain.Unauthorized("Authentication is required.")
	}
	table, ok := e.policies[r.Actor.Role]
	if !ok {
		return domain.Forbidden("UnknownRole", "Role %s is not allowed to perform this operation.", r.Actor.Role)
	}
	if !r.Actor.IsSystemAdmin() {
		if err := checkTenant(r); err != nil {
			return err
		}
	}
	check, ok := table[r.Resource.Type]
	if !ok {
		return domain.ErrForbidden
	}
	return check(r)
}

// VisibleTenant devuelve el filtro de tenant para listados: nil (todos) para system_admin,
// el tenant propio para el resto.
func VisibleTenant(actor *entity.User) *int64 {
	if actor == nil || actor.IsSystemAdmin() {
		return nil
	}
	return actor.TenantID
}

// checkTenant rechaza operaciones sobre recursos de otro tenant. Para regular_user la
// respuesta es NotFound del recurso, para no revelar su existencia.
func checkTenant(r Request) error {
	res := r.Resource
	if res.TenantID == nil {
		// Recurso sin tenant (ej. un system_admin) solo es alcanzable por system_admin.
		if r.Action == ActionCreate || r.Action == ActionList {
			return nil
		}
		return crossTenant(r)
	}
	if r.Actor.BelongsTo(*res.TenantID) {
		return nil
	}
	return crossTenant(r)
}

func crossTenant(r Request) error {
	if r.Actor.Role != entity.RoleRegularUser {
		return domain.CrossTenantOperationForbidden()
	}
	if r.Action == ActionList || r.Action == ActionCreate {
		if r.Action == ActionCreate && r.Resource.WarehouseID != 0 {
			return domain.WarehouseNotFound(r.Resource.WarehouseID)
		}
		if r.Resource.TenantID != nil {
			return domain.TenantNotFound(*r.Resource.TenantID)
		}
		return domain.CrossTenantOperationForbidden()
	}
	return notFound(r.Resource)
}

func notFound(res Resource) error {
	switch res.Type {
	case ResourceTenant:
		return domain.TenantNotFound(res.Ref)
	case ResourceUser:
		return domain.UserNotFound(res.Ref)
	case ResourceWarehouse:
		return domain.WarehouseNotFound(res.Ref)
	case ResourcePermission:
		return domain.WarehousePermissionNotFound(res.Ref)
	default:
		return domain.ProductNotFound(res.Ref)
	}
}

func allow(Request) error { return nil }

// ── system_admin ─────────────────────────────────────────────────────────────

func systemAdminPolicy() map[ResourceType]rule {
	return map[ResourceType]rule{
		ResourceTenant:     allow,
		ResourceUser:       validateUserChange,
		ResourceWarehouse:  allow,
		ResourceProduct:    allow,
		ResourcePermission: allow,
		ResourceRestockLog: allow,
	}
}

// validateUserChange mantiene el invariante system_admin ⇔ sin tenant.
func validateUserChange(r Request) error {
	if r.User == nil || (r.Action != ActionCreate && r.Action != ActionUpdate) {
		return nil
	}
	if r.User.Role == entity.RoleSystemAdmin && r.User.TenantID != nil {
		return domain.SystemAdminTenantAssociationForbidden()
	}
	if r.User.Role.RequiresTenant() && r.User.TenantID == nil {
		return domain.UserTenantRequired(r.User.Role.String())
	}
	return nil
}

// ── tenant_admin ─────────────────────────────────────────────────────────────

func tenantAdminPolicy() map[ResourceType]rule {
	return map[ResourceType]rule{
		ResourceTenant: func(r Request) error {
			if r.Action == ActionCreate || r.Action == ActionDelete {
				return domain.Forbidden("TenantAdminCannotManageTenants", "Tenant admins cannot create or delete tenants.")
			}
			return nil
		},
		ResourceUser: func(r Request) error {
			if r.User != nil && r.User.Role == entity.RoleSystemAdmin {
				return domain.TenantAdminCannotCreateSystemAdmins()
			}
			return validateUserChange(r)
		},
		ResourceWarehouse:  allow,
		ResourceProduct:    allow,
		ResourcePermission: allow,
		ResourceRestockLog: allow,
	}
}

// ── regular_user ─────────────────────────────────────────────────────────────

// selfEditableFields campos que un regular_user puede cambiar de su propio perfil.
var selfEditableFields = map[string]bool{
	"name":     true,
	"email":    true,
	"phone":    true,
	"password": true,
}

func regularUserPolicy() map[ResourceType]rule {
	return map[ResourceType]rule{
		ResourceTenant: func(r Request) error {
			if r.Action.IsWrite() {
				return domain.Forbidden("RegularUserCannotManageTenants", "Regular users cannot manage tenants.")
			}
			return nil
		},
		ResourceUser:       regularUserOnUsers,
		ResourceWarehouse:  regularUserOnWarehouses,
		ResourceProduct:    regularUserOnProducts,
		ResourceRestockLog: regularUserOnProducts,
		ResourcePermission: func(r Request) error {
			switch r.Action {
			case ActionList:
				if r.Resource.OwnerID == 0 || r.Resource.OwnerID == r.Actor.ID {
					return nil
				}
			case ActionRead:
				if r.Resource.OwnerID == r.Actor.ID {
					return nil
				}
				return domain.WarehousePermissionNotFound(r.Resource.Ref)
			}
			return domain.Forbidden("RegularUserCannotManagePermissions", "Regular users cannot manage warehouse permissions.")
		},
	}
}

func regularUserOnUsers(r Request) error {
	switch r.Action {
	case ActionRead, ActionList:
		return nil
	case ActionCreate:
		return domain.RegularUserCannotCreateUsers()
	case ActionUpdate:
		if r.Resource.OwnerID != r.Actor.ID {
			return domain.Forbidden("RegularUserCannotManageUsers", "Regular users can only update their own profile.")
		}
		if r.User != nil {
			if r.User.Role != "" && r.User.Role != r.Actor.Role {
				return domain.Forbidden("RegularUserFieldUpdateForbidden", "Regular users cannot change field role.")
			}
			for _, f := range r.User.Fields {
				if !selfEditableFields[f] {
					return domain.Forbidden("RegularUserFieldUpdateForbidden", "Regular users cannot change field %s.", f)
				}
			}
		}
		return nil
	}
	return domain.Forbidden("RegularUserCannotManageUsers", "Regular users cannot delete users.")
}

func regularUserOnWarehouses(r Request) error {
	switch r.Action {
	case ActionList:
		return nil
	case ActionRead:
		if r.Access.Allows(entity.AccessView) {
			return nil
		}
		return domain.WarehouseNotFound(r.Resource.Ref)
	}
	return domain.Forbidden("RegularUserCannotManageWarehouses", "Regular users cannot manage warehouses.")
}

// regularUserOnProducts lectura con view, escritura y reposición con edit. Sin permiso alguno la
// bodega (o el producto) se trata como inexistente.
func regularUserOnProducts(r Request) error {
	if r.Action == ActionList {
		return nil
	}
	required := entity.AccessView
	if r.Action.IsWrite() {
		required = entity.AccessEdit
	}
	if r.Access.Allows(required) {
		return nil
	}
	if r.Access == entity.AccessNone {
		if r.Action == ActionCreate {
			return domain.WarehouseNotFound(r.Resource.WarehouseID)
		}
		return notFound(r.Resource)
	}
	return domain.Forbidden("WarehouseEditPermissionRequired",
		"Edit permission on warehouse %d is required for this operation.", r.Resource.WarehouseID)
}

// ValidatePermissionTarget valida la asignación de un permiso de bodega: el titular debe ser
// regular_user del mismo tenant que la bodega (y que el tenant del payload, si viene), y el
// actor debe pertenecer a ese tenant salvo que sea system_admin.
func ValidatePermissionTarget(actor, target *entity.User, warehouse *entity.Warehouse, payloadTenant *int64) error {
	if actor == nil {
		return domain.Unauthorized("Authentication is required.")
	}
	if target.IsSystemAdmin() {
		return domain.CannotAssignPermissionToSystemAdmin(target.ID)
	}
	if target.Role != entity.RoleRegularUser {
		return domain.UserNotRegular(target.ID)
	}
	if !target.BelongsTo(warehouse.TenantID) {
		return domain.PermissionTenantMismatch()
	}
	if payloadTenant != nil && *payloadTenant != warehouse.TenantID {
		return domain.PermissionTenantMismatch()
	}
	if !actor.IsSystemAdmin() && !actor.BelongsTo(warehouse.TenantID) {
		return domain.CrossTenantOperationForbidden()
	}
	return nil
}
