package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores de dominio; cada tipo se traduce a un código HTTP en la capa de interfaces.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Errores de dominio base (sin dependencias externas). Se comparan con errors.Is.
var (
	ErrBadRequest   = &Error{Kind: KindBadRequest, Code: "BAD_REQUEST", Message: "Bad request."}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Code: "UNAUTHORIZED", Message: "Not authorized."}
	ErrForbidden    = &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: "Access forbidden."}
	ErrNotFound     = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "Resource could not be found."}
	ErrConflict     = &Error{Kind: KindConflict, Code: "CONFLICT", Message: "Resource already exists."}
	ErrInternal     = &Error{Kind: KindInternal, Code: "INTERNAL", Message: "An unknown exception occurred."}
)

// Error es un error de dominio con tipo, código estable y mensaje ya formateado.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is permite errors.Is(err, domain.ErrNotFound) para cualquier error del mismo tipo,
// y errors.Is(err, domain.ProductNotFound(0)) comparando por código.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == ErrBadRequest || t == ErrUnauthorized || t == ErrForbidden ||
		t == ErrNotFound || t == ErrConflict || t == ErrInternal {
		return e.Kind == t.Kind
	}
	return e.Code == t.Code
}

// Title devuelve el título legible del tipo de error.
func (k Kind) Title() string {
	switch k {
	case KindBadRequest:
		return "Bad request"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "Not Found"
	case KindConflict:
		return "Conflict"
	default:
		return "Internal Server Error"
	}
}

// KindOf devuelve el tipo de un error; los errores que no son de dominio son internos.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

func newError(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// BadRequest construye un error de validación genérico.
func BadRequest(format string, args ...any) *Error {
	return newError(KindBadRequest, "BAD_REQUEST", format, args...)
}

// Forbidden construye un error de acceso denegado con código propio.
func Forbidden(code, format string, args ...any) *Error {
	return newError(KindForbidden, code, format, args...)
}

// Unauthorized indica credenciales ausentes o inválidas.
func Unauthorized(format string, args ...any) *Error {
	return newError(KindUnauthorized, "UNAUTHORIZED", format, args...)
}

// ── Tenants ──────────────────────────────────────────────────────────────────

func TenantNotFound(ref any) *Error {
	return newError(KindNotFound, "TenantNotFound", "Tenant %v could not be found.", ref)
}

func TenantNameAlreadyExist(name string) *Error {
	return newError(KindConflict, "TenantNameAlreadyExist", "Tenant with name %s already exists.", name)
}

func TenantHasDependents(ref any) *Error {
	return newError(KindConflict, "TenantHasDependents", "Tenant %v still has users or warehouses.", ref)
}

// TenantReferenceInvalid se usa cuando el payload apunta a un tenant inexistente.
func TenantReferenceInvalid(id int64) *Error {
	return newError(KindBadRequest, "TenantReferenceInvalid", "Tenant %d referenced in the request does not exist.", id)
}

// ── Users ────────────────────────────────────────────────────────────────────

func UserNotFound(ref any) *Error {
	return newError(KindNotFound, "UserNotFound", "User %v could not be found.", ref)
}

func UserEmailAlreadyExist(email string) *Error {
	return newError(KindConflict, "UserEmailAlreadyExist", "User with email %s already exists.", email)
}

func UserTenantRequired(role string) *Error {
	return newError(KindBadRequest, "UserTenantRequired", "Users with role %s must belong to a tenant.", role)
}

func SystemAdminTenantAssociationForbidden() *Error {
	return newError(KindForbidden, "SystemAdminTenantAssociationForbidden", "System admins cannot be associated with a tenant.")
}

func TenantAdminCannotCreateSystemAdmins() *Error {
	return newError(KindForbidden, "TenantAdminCannotCreateSystemAdmins", "Tenant admins cannot create or promote system admins.")
}

func RegularUserCannotCreateUsers() *Error {
	return newError(KindForbidden, "RegularUserCannotCreateUsers", "Regular users cannot create users.")
}

func UserHasPermissions(ref any) *Error {
	return newError(KindConflict, "UserHasPermissions", "User %v still holds warehouse permissions.", ref)
}

// ── Warehouses ───────────────────────────────────────────────────────────────

func WarehouseNotFound(ref any) *Error {
	return newError(KindNotFound, "WarehouseNotFound", "Warehouse %v could not be found.", ref)
}

func WarehouseHasProducts(ref any) *Error {
	return newError(KindConflict, "WarehouseHasProducts", "Warehouse %v still holds products.", ref)
}

func WarehouseHasPermissions(ref any) *Error {
	return newError(KindConflict, "WarehouseHasPermissions", "Warehouse %v still has warehouse permissions.", ref)
}

// ── Products ─────────────────────────────────────────────────────────────────

func ProductNotFound(ref any) *Error {
	return newError(KindNotFound, "ProductNotFound", "Product %v could not be found.", ref)
}

func ProductSKUAlreadyExist(sku string) *Error {
	return newError(KindConflict, "ProductSKUAlreadyExist", "Product with SKU %s already exists.", sku)
}

func ProductHasRestockHistory(ref any) *Error {
	return newError(KindConflict, "ProductHasRestockHistory", "Product %v has restock history and cannot be deleted.", ref)
}

func RestockLogInvalidQuantity(quantity int64) *Error {
	return newError(KindBadRequest, "RestockLogInvalidQuantity",
		"Restock log request has invalid quantity %d. Quantity must be a positive integer.", quantity)
}

// RestockLogQuantityOverflow la reposición dejaría la cantidad fuera del rango de int64.
func RestockLogQuantityOverflow(quantity, current int64) *Error {
	return newError(KindBadRequest, "RestockLogInvalidQuantity",
		"Restock log request has invalid quantity %d. Current quantity %d plus the restock exceeds the maximum stock.", quantity, current)
}

// ValueOutOfRange valor numérico que no cabe en la columna de almacenamiento.
func ValueOutOfRange(field string) *Error {
	return newError(KindBadRequest, "ValueOutOfRange", "Field %s is out of the allowed range.", field)
}

func AnalyticsInvalidThreshold(threshold int64) *Error {
	return newError(KindBadRequest, "AnalyticsInvalidThreshold",
		"Invalid low stock threshold %d. Threshold must be a not negative integer.", threshold)
}

// ── Permissions ──────────────────────────────────────────────────────────────

func WarehousePermissionNotFound(ref any) *Error {
	return newError(KindNotFound, "WarehousePermissionNotFound", "Warehouse permission %v could not be found.", ref)
}

func WarehousePermissionAlreadyExist(userID, warehouseID int64) *Error {
	return newError(KindConflict, "WarehousePermissionAlreadyExist",
		"User %d already has a permission on warehouse %d.", userID, warehouseID)
}

func CannotAssignPermissionToSystemAdmin(userID int64) *Error {
	return newError(KindForbidden, "CannotAssignPermissionToSystemAdmin",
		"User %d is a system admin; warehouse permissions cannot be assigned to system admins.", userID)
}

func UserNotRegular(userID int64) *Error {
	return newError(KindBadRequest, "UserNotRegular",
		"User %d is not a regular user; warehouse permissions only apply to regular users.", userID)
}

func PermissionTenantMismatch() *Error {
	return newError(KindBadRequest, "PermissionTenantMismatch",
		"The user, the warehouse and the permission must belong to the same tenant.")
}

// ── Authorization ────────────────────────────────────────────────────────────

func CrossTenantOperationForbidden() *Error {
	return newError(KindForbidden, "CrossTenantOperationForbidden", "Operations on resources of another tenant are forbidden.")
}
