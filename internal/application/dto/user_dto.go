package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
// TenantID se omite para system_admin; un tenant_admin que lo omite crea en su propio tenant.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=system_admin tenant_admin regular_user"`
	TenantID *int64 `json:"tenant_id"`
}

// UpdateUserRequest actualización parcial: solo se aplican los campos presentes.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	TenantID *int64  `json:"tenant_id"`
}

// Fields nombres JSON de los campos presentes.
func (r UpdateUserRequest) Fields() []string {
	var fields []string
	if r.Name != nil {
		fields = append(fields, "name")
	}
	if r.Email != nil {
		fields = append(fields, "email")
	}
	if r.Phone != nil {
		fields = append(fields, "phone")
	}
	if r.Password != nil {
		fields = append(fields, "password")
	}
	if r.Role != nil {
		fields = append(fields, "role")
	}
	if r.TenantID != nil {
		fields = append(fields, "tenant_id")
	}
	return fields
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	TenantID  *int64    `json:"tenant_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT + usuario autenticado.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // segundos
	User      UserResponse `json:"user"`
}
