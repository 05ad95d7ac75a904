package dto

import "time"

// CreateTenantRequest entrada para crear un tenant.
type CreateTenantRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

// UpdateTenantRequest actualización parcial de un tenant.
type UpdateTenantRequest struct {
	Name         *string `json:"name"`
	ContactEmail *string `json:"contact_email"`
}

// TenantResponse salida de un tenant.
type TenantResponse struct {
	ID           int64     `json:"id"`
	UUID         string    `json:"uuid"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TenantListResponse lista paginada de tenants.
type TenantListResponse struct {
	Items []TenantResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
