package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/luestilo/gestao-api/internal/application/dto"
	"github.com/luestilo/gestao-api/internal/domain"
	"github.com/luestilo/gestao-api/internal/domain/entity"
	"github.com/luestilo/gestao-api/internal/domain/repository"
	"github.com/luestilo/gestao-api/pkg/cpf"
	"github.com/luestilo/gestao-api/pkg/optional"
	"github.com/luestilo/gestao-api/pkg/phone"
)

// ClientUseCase casos de uso CRUD para clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create registra un cliente con CPF y teléfono normalizados.
// La unicidad del CPF la garantiza la restricción sobre sus dígitos (ErrCPFAlreadyExists).
func (uc *ClientUseCase) Create(ctx context.Context, actorID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	formattedCPF, err := cpf.Normalize(in.CPF)
	if err != nil {
		return nil, fmt.Errorf("%w: cpf: %v", domain.ErrInvalidInput, err)
	}
	formattedPhone, err := phone.Format(in.Phone)
	if err != nil {
		return nil, fmt.Errorf("%w: phone: %v", domain.ErrInvalidInput, err)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	now := time.Now().UTC()
	client := &entity.Client{
		ID:         entity.NewID(),
		Name:       strings.TrimSpace(in.Name),
		Email:      email,
		CPF:        formattedCPF,
		Phone:      formattedPhone,
		Address:    in.Address,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		IsActive:   true,
		CreatedBy:  nullableID(actorID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.IsActive != nil {
		client.IsActive = *in.IsActive
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	client, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista clientes filtrando por nombre/email (coincidencia parcial).
func (uc *ClientUseCase) List(ctx context.Context, name, email string, page dto.PageRequest) (*dto.ClientListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, entity.ClientFilter{
		Name:   strings.TrimSpace(name),
		Email:  strings.TrimSpace(email),
		Offset: page.Skip,
		Limit:  page.Limit,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Skip: page.Skip, Limit: page.Limit, Count: len(items)},
	}, nil
}

// Update actualización parcial. El CPF no se modifica; el teléfono se vuelve a formatear.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name.IsNull() || in.Email.IsNull() || in.Phone.IsNull() || in.IsActive.IsNull() {
		return nil, fmt.Errorf("%w: name, email, phone e is_active no pueden ser null", domain.ErrInvalidInput)
	}

	patch := entity.ClientPatch{
		Name:       in.Name,
		Address:    in.Address,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		IsActive:   in.IsActive,
	}
	if email, ok := in.Email.Get(); ok {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != client.Email {
			existing, err := uc.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != client.ID {
				return nil, domain.ErrEmailAlreadyExists
			}
		}
		patch.Email = optional.Of(email)
	}
	if raw, ok := in.Phone.Get(); ok {
		formatted, err := phone.Format(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: phone: %v", domain.ErrInvalidInput, err)
		}
		patch.Phone = optional.Of(formatted)
	}

	updated := client.Apply(patch, time.Now().UTC())
	if err := uc.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return toClientResponse(&updated), nil
}

// Delete elimina un cliente. ErrConflict si tiene pedidos.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *ClientUseCase) get(ctx context.Context, id string) (*entity.Client, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		CPF:        c.CPF,
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		State:      c.State,
		PostalCode: c.PostalCode,
		IsActive:   c.IsActive,
		CreatedBy:  c.CreatedBy,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// nullableID referencia de auditoría; vacío se guarda como NULL.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
