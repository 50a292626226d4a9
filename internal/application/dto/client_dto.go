package dto

import (
	"time"

	"github.com/luestilo/gestao-api/pkg/optional"
)

// CreateClientRequest entrada para crear un cliente. CPF y teléfono se normalizan en el caso de uso.
type CreateClientRequest struct {
	Name       string  `json:"name" validate:"required,min=1,max=200"`
	Email      string  `json:"email" validate:"required,email"`
	CPF        string  `json:"cpf" validate:"required,cpf"`
	Phone      string  `json:"phone" validate:"required,phone_br"`
	Address    *string `json:"address" validate:"omitempty,max=255"`
	City       *string `json:"city" validate:"omitempty,max=100"`
	State      *string `json:"state" validate:"omitempty,max=50"`
	PostalCode *string `json:"postal_code" validate:"omitempty,max=20"`
	IsActive   *bool   `json:"is_active"`
}

// UpdateClientRequest actualización parcial; null limpia los campos de dirección.
type UpdateClientRequest struct {
	Name       optional.Field[string] `json:"name" validate:"omitempty,min=1,max=200"`
	Email      optional.Field[string] `json:"email" validate:"omitempty,email"`
	Phone      optional.Field[string] `json:"phone" validate:"omitempty,phone_br"`
	Address    optional.Field[string] `json:"address" validate:"omitempty,max=255"`
	City       optional.Field[string] `json:"city" validate:"omitempty,max=100"`
	State      optional.Field[string] `json:"state" validate:"omitempty,max=50"`
	PostalCode optional.Field[string] `json:"postal_code" validate:"omitempty,max=20"`
	IsActive   optional.Field[bool]   `json:"is_active"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CPF        string    `json:"cpf"`
	Phone      string    `json:"phone"`
	Address    *string   `json:"address"`
	City       *string   `json:"city"`
	State      *string   `json:"state"`
	PostalCode *string   `json:"postal_code"`
	IsActive   bool      `json:"is_active"`
	CreatedBy  *string   `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
