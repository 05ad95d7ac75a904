package repository

// Page paginación para listados.
type Page struct {
	Limit  int
	Offset int
}

// TenantFilter restringe listados de tenants. TenantID nil = todos (solo system_admin).
type TenantFilter struct {
	TenantID *int64
	Page     Page
}

// UserFilter restringe listados de usuarios.
type UserFilter struct {
	TenantID *int64
	Role     string
	Page     Page
}

// WarehouseFilter restringe listados de bodegas.
// Si RestrictIDs es true solo se devuelven las bodegas de IDs (vacío = ninguna).
type WarehouseFilter struct {
	TenantID    *int64
	IDs         []int64
	RestrictIDs bool
	Page        Page
}

// ProductFilter restringe listados de productos.
// Si RestrictWarehouses es true solo se devuelven productos de WarehouseIDs (vacío = ninguno).
type ProductFilter struct {
	TenantID           *int64
	WarehouseIDs       []int64
	RestrictWarehouses bool
	Page               Page
}

// PermissionFilter restringe listados de permisos.
type PermissionFilter struct {
	TenantID    *int64
	UserID      *int64
	WarehouseID *int64
	Page        Page
}

// RestockFilter restringe listados del historial de reposiciones.
type RestockFilter struct {
	TenantID           *int64
	ProductID          *int64
	WarehouseIDs       []int64
	RestrictWarehouses bool
	Page               Page
}
