package entity

import (
	"fmt"
	"time"
)

// AccessLevel nivel de acceso de un regular_user sobre una bodega.
type AccessLevel string

const (
	AccessNone AccessLevel = ""
	AccessView AccessLevel = "view" // solo lectura
	AccessEdit AccessLevel = "edit" // lectura + escritura
)

// ParseAccessLevel valida un nivel de acceso recibido como texto.
func ParseAccessLevel(s string) (AccessLevel, error) {
	switch l := AccessLevel(s); l {
	case AccessView, AccessEdit:
		return l, nil
	}
	return AccessNone, fmt.Errorf("nivel de acceso desconocido %q", s)
}

func (l AccessLevel) rank() int {
	switch l {
	case AccessView:
		return 1
	case AccessEdit:
		return 2
	default:
		return 0
	}
}

// Allows informa si este nivel cubre el nivel requerido (view ⊆ edit).
func (l AccessLevel) Allows(required AccessLevel) bool {
	return l.rank() > 0 && l.rank() >= required.rank()
}

// WarehousePermission concede a un regular_user acceso a una bodega.
// TenantID debe coincidir con el tenant del usuario y con el de la bodega.
type WarehousePermission struct {
	ID          int64
	UUID        string
	UserID      int64
	WarehouseID int64
	TenantID    int64
	AccessLevel AccessLevel
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
