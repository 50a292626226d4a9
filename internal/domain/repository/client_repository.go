package repository

import (
	"context"

	"github.com/luestilo/gestao-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// Create/Update devuelven domain.ErrEmailAlreadyExists o domain.ErrCPFAlreadyExists ante violaciones de unicidad.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByEmail(ctx context.Context, email string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	List(ctx context.Context, filter entity.ClientFilter) ([]*entity.Client, error)
	// ListActive clientes activos; con section solo los que compraron productos de esa sección.
	ListActive(ctx context.Context, section string) ([]*entity.Client, error)
	// Delete devuelve domain.ErrConflict si el cliente tiene pedidos.
	Delete(ctx context.Context, id string) error
}
