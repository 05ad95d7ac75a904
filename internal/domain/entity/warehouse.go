package entity

import "time"

// Warehouse representa una bodega. Los productos que contiene heredan su TenantID.
type Warehouse struct {
	ID        int64
	UUID      string
	TenantID  int64
	Name      string
	Location  string
	Capacity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
