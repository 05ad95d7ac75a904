package dto

import "time"

// CreatePermissionRequest entrada para conceder un permiso de bodega.
// TenantID es opcional; si viene debe coincidir con el de usuario y bodega.
type CreatePermissionRequest struct {
	UserID      int64  `json:"user_id" validate:"required"`
	WarehouseID int64  `json:"warehouse_id" validate:"required"`
	AccessLevel string `json:"access_level" validate:"required,oneof=view edit"`
	TenantID    *int64 `json:"tenant_id"`
}

// UpdatePermissionRequest cambio de nivel de acceso.
type UpdatePermissionRequest struct {
	AccessLevel string `json:"access_level" validate:"required,oneof=view edit"`
}

// PermissionResponse salida de un permiso.
type PermissionResponse struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid"`
	UserID      int64     `json:"user_id"`
	WarehouseID int64     `json:"warehouse_id"`
	TenantID    int64     `json:"tenant_id"`
	AccessLevel string    `json:"access_level"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PermissionListResponse lista paginada de permisos.
type PermissionListResponse struct {
	Items []PermissionResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// PermissionListFilter filtros opcionales de listado.
type PermissionListFilter struct {
	UserID      *int64
	WarehouseID *int64
}
