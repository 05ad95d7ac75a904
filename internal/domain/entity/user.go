package entity

import (
	"fmt"
	"time"
)

// Role es el rol de un usuario. Conjunto cerrado: ver constantes Role*.
type Role string

// Roles válidos para User, de mayor a menor privilegio.
const (
	RoleSystemAdmin Role = "system_admin"
	RoleTenantAdmin Role = "tenant_admin"
	RoleRegularUser Role = "regular_user"
)

// ParseRole valida un rol recibido como texto.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSystemAdmin, RoleTenantAdmin, RoleRegularUser:
		return r, nil
	}
	return "", fmt.Errorf("rol desconocido %q", s)
}

// RequiresTenant informa si el rol exige tenant_id (todos excepto system_admin).
func (r Role) RequiresTenant() bool { return r != RoleSystemAdmin }

func (r Role) String() string { return string(r) }

// User representa un usuario del sistema. TenantID es nil si y solo si Role es system_admin.
type User struct {
	ID           int64
	UUID         string
	TenantID     *int64
	Name         string
	Email        string // único global, se guarda en minúsculas
	Phone        string
	Role         Role
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsSystemAdmin atajo para el rol de mayor privilegio.
func (u *User) IsSystemAdmin() bool { return u != nil && u.Role == RoleSystemAdmin }

// BelongsTo informa si el usuario pertenece al tenant indicado.
func (u *User) BelongsTo(tenantID int64) bool {
	return u != nil && u.TenantID != nil && *u.TenantID == tenantID
}
