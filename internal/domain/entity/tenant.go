package entity

import "time"

// Tenant representa una organización cliente aislada (unidad de partición de datos).
// Es dueña de bodegas y de los usuarios que no son system_admin.
type Tenant struct {
	ID           int64
	UUID         string
	Name         string // único en todo el sistema
	ContactEmail string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
