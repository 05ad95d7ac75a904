// Package memory implementa el almacenamiento de entidades en proceso. Cada transacción trabaja
// sobre una copia de los datos y la publica al confirmar; las transacciones se serializan con un
// mutex, así que GetForUpdate no necesita bloqueo propio.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// Store almacenamiento en memoria. Usado con STORE_DRIVER=memory y en los tests.
type Store struct {
	mu   sync.Mutex
	data *data
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{data: newData()}
}

// Run ejecuta fn sobre una copia de los datos; si fn devuelve nil la copia reemplaza al estado.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(work.repositories()); err != nil {
		return err
	}
	s.data = work
	return nil
}

type data struct {
	tenants     map[int64]entity.Tenant
	users       map[int64]entity.User
	warehouses  map[int64]entity.Warehouse
	products    map[int64]entity.Product
	permissions map[int64]entity.WarehousePermission
	restocks    map[int64]entity.RestockLog
	seq         map[string]int64
}

func newData() *data {
	return &data{
		tenants:     map[int64]entity.Tenant{},
		users:       map[int64]entity.User{},
		warehouses:  map[int64]entity.Warehouse{},
		products:    map[int64]entity.Product{},
		permissions: map[int64]entity.WarehousePermission{},
		restocks:    map[int64]entity.RestockLog{},
		seq:         map[string]int64{},
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.tenants {
		c.tenants[k] = v
	}
	for k, v := range d.users {
		c.users[k] = copyUser(v)
	}
	for k, v := range d.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.permissions {
		c.permissions[k] = v
	}
	for k, v := range d.restocks {
		c.restocks[k] = v
	}
	for k, v := range d.seq {
		c.seq[k] = v
	}
	return c
}

func (d *data) next(table string) int64 {
	d.seq[table]++
	return d.seq[table]
}

func (d *data) repositories() repository.Repositories {
	return repository.Repositories{
		Tenants:     &TenantRepo{d: d},
		Users:       &UserRepo{d: d},
		Warehouses:  &WarehouseRepo{d: d},
		Products:    &ProductRepo{d: d},
		Permissions: &PermissionRepo{d: d},
		Restocks:    &RestockLogRepo{d: d},
	}
}

// copyUser evita compartir el puntero TenantID entre copias.
func copyUser(u entity.User) entity.User {
	if u.TenantID != nil {
		t := *u.TenantID
		u.TenantID = &t
	}
	return u
}

func matchRef(ref entity.Ref, id int64, uuid string) bool {
	if ref.UUID != "" {
		return strings.EqualFold(ref.UUID, uuid)
	}
	return ref.ID != 0 && ref.ID == id
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// sortedIDs devuelve las claves ordenadas ascendentemente (mismo orden que ORDER BY id).
func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// paginate aplica limit/offset; limit <= 0 significa sin límite.
func paginate[T any](list []T, p repository.Page) []T {
	if p.Offset > 0 {
		if p.Offset >= len(list) {
			return []T{}
		}
		list = list[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(list) {
		list = list[:p.Limit]
	}
	return list
}
