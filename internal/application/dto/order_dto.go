package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/luestilo/gestao-api/pkg/optional"
)

// OrderItemInput línea enviada al crear un pedido. El precio unitario lo fija quien crea el pedido.
type OrderItemInput struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest entrada para crear un pedido.
type CreateOrderRequest struct {
	ClientID string           `json:"client_id" validate:"required,uuid"`
	Items    []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Status   string           `json:"status" validate:"omitempty,order_status"`
	Notes    *string          `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateOrderRequest actualización parcial: solo status y notes.
type UpdateOrderRequest struct {
	Status optional.Field[string] `json:"status" validate:"omitempty,order_status"`
	Notes  optional.Field[string] `json:"notes" validate:"omitempty,max=1000"`
}

// OrderItemResponse salida de una línea de pedido.
type OrderItemResponse struct {
	ID         string          `json:"id"`
	OrderID    string          `json:"order_id"`
	ProductID  string          `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OrderResponse salida de un pedido con sus líneas.
type OrderResponse struct {
	ID          string              `json:"id"`
	ClientID    string              `json:"client_id"`
	Status      string              `json:"status"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Notes       *string             `json:"notes"`
	CreatedBy   *string             `json:"created_by"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// OrderFilterRequest filtros de listado ya parseados de la query.
// EndDate se interpreta como día completo.
type OrderFilterRequest struct {
	StartDate *Date
	EndDate   *Date
	OrderID   string
	Status    string
	ClientID  string
	Section   string
	Page      PageRequest
}
