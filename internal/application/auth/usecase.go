// Package auth autentica usuarios (email + password) y emite tokens JWT.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
	"github.com/jhoicas/Inventario-tenants/pkg/jwt"
)

// MinPasswordLength longitud mínima aceptada al fijar una contraseña.
const MinPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase caso de uso de login.
type AuthUseCase struct {
	tx     repository.TxRunner
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(tx repository.TxRunner, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{tx: tx, jwtCfg: jwtCfg}
}

// HashPassword valida la longitud mínima y devuelve el hash bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", domain.BadRequest("Password must have at least %d characters.", MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y password incorrecto responden igual (Unauthorized).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.BadRequest("Fields email and password are required.")
	}
	var user *entity.User
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		u, err := r.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Unauthorized("Invalid email or password.")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.Unauthorized("Invalid email or password.")
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.TenantID, user.Role.String(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		UUID:      u.UUID,
		TenantID:  u.TenantID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
