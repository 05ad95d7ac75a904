package entity

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Ref identifica un recurso por ID numérico o por UUID externo.
type Ref struct {
	ID   int64
	UUID string
}

// RefID construye una referencia por ID numérico.
func RefID(id int64) Ref { return Ref{ID: id} }

// ParseRef interpreta un identificador de ruta: número -> ID, UUID válido -> UUID.
func ParseRef(s string) (Ref, bool) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		if id <= 0 {
			return Ref{}, false
		}
		return Ref{ID: id}, true
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return Ref{}, false
	}
	return Ref{UUID: u.String()}, true
}

// IsZero informa si la referencia está vacía.
func (r Ref) IsZero() bool { return r.ID == 0 && r.UUID == "" }

func (r Ref) String() string {
	if r.UUID != "" {
		return r.UUID
	}
	return strconv.FormatInt(r.ID, 10)
}
