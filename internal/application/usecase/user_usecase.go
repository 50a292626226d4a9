package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/luestilo/gestao-api/internal/application/auth"
	"github.com/luestilo/gestao-api/internal/application/dto"
	"github.com/luestilo/gestao-api/internal/domain"
	"github.com/luestilo/gestao-api/internal/domain/entity"
	"github.com/luestilo/gestao-api/internal/domain/repository"
	"github.com/luestilo/gestao-api/pkg/optional"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return auth.ToUserResponse(user), nil
}

// UpdateMe actualización parcial del usuario autenticado.
// is_admin e is_active solo los puede cambiar un administrador.
func (uc *UserUseCase) UpdateMe(ctx context.Context, current *entity.User, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !current.IsAdmin && (in.IsAdmin.Set || in.IsActive.Set) {
		return nil, fmt.Errorf("%w: solo un administrador puede cambiar is_admin o is_active", domain.ErrForbidden)
	}
	if in.Email.IsNull() || in.Username.IsNull() || in.Password.IsNull() {
		return nil, fmt.Errorf("%w: email, username y password no pueden ser null", domain.ErrInvalidInput)
	}

	patch := entity.UserPatch{
		Username: in.Username,
		FullName: in.FullName,
		IsActive: in.IsActive,
		IsAdmin:  in.IsAdmin,
	}
	if email, ok := in.Email.Get(); ok {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != current.Email {
			existing, err := uc.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != current.ID {
				return nil, domain.ErrEmailAlreadyExists
			}
		}
		patch.Email = optional.Of(email)
	}
	if username, ok := in.Username.Get(); ok && username != current.Username {
		existing, err := uc.repo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != current.ID {
			return nil, domain.ErrUsernameAlreadyExists
		}
	}
	if password, ok := in.Password.Get(); ok {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = optional.Of(hash)
	}

	updated := current.Apply(patch, time.Now().UTC())
	if err := uc.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(&updated), nil
}

// DeleteMe elimina al usuario autenticado. Las referencias created_by quedan en NULL.
func (uc *UserUseCase) DeleteMe(ctx context.Context, current *entity.User) error {
	return uc.repo.Delete(ctx, current.ID)
}

// List lista usuarios con paginación (solo administradores).
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Skip: page.Skip, Limit: page.Limit, Count: len(items)},
	}, nil
}
