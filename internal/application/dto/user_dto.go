package dto

import (
	"time"

	"github.com/luestilo/gestao-api/pkg/optional"
)

// RegisterRequest entrada para registro público. is_admin no se acepta aquí.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Password string  `json:"password" validate:"required,password"`
	FullName *string `json:"full_name" validate:"omitempty,max=120"`
}

// LoginRequest entrada para login; acepta JSON o formulario.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// TokenResponse salida con el token de acceso.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // segundos
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  *string   `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateUserRequest actualización parcial del propio usuario.
type UpdateUserRequest struct {
	Email    optional.Field[string] `json:"email" validate:"omitempty,email"`
	Username optional.Field[string] `json:"username" validate:"omitempty,min=3,max=50"`
	FullName optional.Field[string] `json:"full_name" validate:"omitempty,max=120"`
	Password optional.Field[string] `json:"password" validate:"omitempty,password"`
	IsActive optional.Field[bool]   `json:"is_active"`
	IsAdmin  optional.Field[bool]   `json:"is_admin"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
