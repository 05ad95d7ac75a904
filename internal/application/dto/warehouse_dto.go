package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega.
// TenantID solo lo usa system_admin; para el resto se toma del actor.
type CreateWarehouseRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Location string `json:"location"`
	Capacity int64  `json:"capacity" validate:"min=0"`
	TenantID *int64 `json:"tenant_id"`
}

// UpdateWarehouseRequest actualización parcial de una bodega.
type UpdateWarehouseRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Capacity *int64  `json:"capacity"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Capacity  int64     `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
