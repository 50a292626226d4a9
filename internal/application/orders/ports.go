package orders

import (
	"context"

	"github.com/luestilo/gestao-api/internal/domain/entity"
	"github.com/luestilo/gestao-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye repos de pedidos, productos y clientes.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
		clientRepo repository.ClientRepository,
	) error) error
}

// Notifier avisa al cliente de los eventos de su pedido.
// El error se devuelve al motor, que lo registra y lo descarta: nunca falla la operación principal.
type Notifier interface {
	OrderCreated(ctx context.Context, order *entity.Order) error
	OrderStatusChanged(ctx context.Context, order *entity.Order) error
}
