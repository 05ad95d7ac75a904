package entity

import "time"

// RestockLog registro inmutable de una reposición. Solo se agrega, nunca se modifica ni borra.
type RestockLog struct {
	ID          int64
	UUID        string
	ProductID   int64
	Quantity    int64 // siempre > 0
	Reason      string
	RestockedAt time.Time
}
