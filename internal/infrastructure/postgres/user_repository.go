package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, uuid::text, tenant_id, name, email, phone, role, password_hash, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var role string
	if err := row.Scan(&u.ID, &u.UUID, &u.TenantID, &u.Name, &u.Email, &u.Phone, &role,
		&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO users (uuid, tenant_id, name, email, phone, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		user.UUID, user.TenantID, user.Name, user.Email, user.Phone, string(user.Role),
		user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return userWriteError(err, user, "insert")
	}
	return nil
}

// Get obtiene un usuario por ID o UUID.
func (r *UserRepo) Get(ctx context.Context, ref entity.Ref) (*entity.User, error) {
	var row pgx.Row
	if ref.UUID != "" {
		row = r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE uuid = $1`, ref.UUID)
	} else {
		row = r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, ref.ID)
	}
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email, sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update actualiza los datos del usuario (incluye hash si cambió).
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	_, err := r.q.Exec(ctx, `
		UPDATE users SET tenant_id = $2, name = $3, email = $4, phone = $5, role = $6,
		       password_hash = $7, updated_at = $8
		WHERE id = $1`,
		user.ID, user.TenantID, user.Name, user.Email, user.Phone, string(user.Role),
		user.PasswordHash, user.UpdatedAt,
	)
	if err != nil {
		return userWriteError(err, user, "update")
	}
	return nil
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.UserHasPermissions(id)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// List lista usuarios filtrando por tenant y rol.
func (r *UserRepo) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	limit, offset := pageArgs(filter.Page.Limit, filter.Page.Offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE ($1::bigint IS NULL OR tenant_id = $1)
		  AND ($2 = '' OR role = $2)
		ORDER BY id LIMIT $3 OFFSET $4`,
		filter.TenantID, filter.Role, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	list := []*entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// userWriteError traduce email duplicado y tenant inexistente (borrado en paralelo).
func userWriteError(err error, user *entity.User, op string) error {
	switch {
	case isUniqueOn(err, "users_email_key"):
		return domain.UserEmailAlreadyExist(user.Email)
	case isForeignKeyViolation(err) && user.TenantID != nil:
		return domain.TenantNotFound(*user.TenantID)
	}
	return fmt.Errorf("%s user: %w", op, err)
}
