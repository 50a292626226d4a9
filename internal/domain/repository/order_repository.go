package repository

import (
	"context"

	"github.com/luestilo/gestao-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	// GetByID carga el pedido con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetByIDForUpdate igual que GetByID pero bloquea la cabecera (SELECT ... FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// Update persiste status y notes.
	Update(ctx context.Context, order *entity.Order) error
	// List ordena por created_at ascendente e id.
	List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error)
	// Delete elimina el pedido; las líneas caen en cascada.
	Delete(ctx context.Context, id string) error
}
