package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luestilo/gestao-api/internal/domain"
	"github.com/luestilo/gestao-api/pkg/optional"
)

// OrderStatus estado de un pedido. Conjunto cerrado: ver ParseOrderStatus.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// orden de avance del flujo normal; cancelled queda fuera.
var statusRank = map[OrderStatus]int{
	OrderPending:    0,
	OrderConfirmed:  1,
	OrderProcessing: 2,
	OrderShipped:    3,
	OrderDelivered:  4,
}

// OrderStatuses devuelve todos los estados válidos.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}
}

// ParseOrderStatus convierte un string al enum; error si no es un estado conocido.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if st.Valid() {
		return st, nil
	}
	return "", fmt.Errorf("%w: estado de pedido desconocido %q", domain.ErrInvalidInput, s)
}

// Valid indica si el estado pertenece al enum.
func (s OrderStatus) Valid() bool {
	if s == OrderCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Terminal indica que el pedido ya no admite cambios de estado.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransitionTo aplica la tabla de transiciones:
//   - mismo estado: permitido (sin efecto)
//   - avance en pending → confirmed → processing → shipped → delivered, saltando pasos si hace falta
//   - cualquier estado no terminal → cancelled
//   - delivered y cancelled son terminales
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	if s.Terminal() || !next.Valid() {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// Order cabecera de pedido. Items y TotalAmount quedan congelados desde la creación.
type Order struct {
	ID          string
	ClientID    string
	Status      OrderStatus
	TotalAmount decimal.Decimal
	Notes       *string
	CreatedBy   *string
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem línea de pedido; pertenece exclusivamente a su pedido.
type OrderItem struct {
	ID         string
	OrderID    string
	ProductID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}

// NewOrderItem construye la línea calculando TotalPrice = Quantity × UnitPrice.
func NewOrderItem(id, orderID, productID string, quantity int, unitPrice decimal.Decimal, now time.Time) (OrderItem, error) {
	if productID == "" {
		return OrderItem{}, fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput)
	}
	if quantity <= 0 {
		return OrderItem{}, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if err := ValidateAmount("unit_price", unitPrice); err != nil {
		return OrderItem{}, err
	}
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if err := ValidateAmount("total_price", total); err != nil {
		return OrderItem{}, err
	}
	return OrderItem{
		ID:         id,
		OrderID:    orderID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: total,
		CreatedAt:  now,
	}, nil
}

// SumItems total del pedido: suma de TotalPrice de las líneas.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	return total
}

// ShortID primeros 8 caracteres del ID, usado en mensajes al cliente.
func (o *Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}

// OrderPatch campos modificables de un pedido tras su creación.
type OrderPatch struct {
	Status optional.Field[OrderStatus]
	Notes  optional.Field[string]
}

// Apply devuelve el pedido con los campos presentes sobrescritos.
// Falla si el cambio de estado no está permitido; notes acepta null para limpiarse.
func (o Order) Apply(p OrderPatch, now time.Time) (Order, error) {
	if next, ok := p.Status.Get(); ok {
		if !next.Valid() {
			return o, fmt.Errorf("%w: estado de pedido desconocido %q", domain.ErrInvalidInput, next)
		}
		if !o.Status.CanTransitionTo(next) {
			return o, fmt.Errorf("%w: %s → %s", domain.ErrInvalidStatusTransition, o.Status, next)
		}
		o.Status = next
	} else if p.Status.IsNull() {
		return o, fmt.Errorf("%w: status no puede ser null", domain.ErrInvalidInput)
	}
	optional.ApplyNullable(&o.Notes, p.Notes)
	o.UpdatedAt = now
	return o, nil
}

// OrderFilter filtros del listado de pedidos. EndDate incluye el día completo.
type OrderFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	OrderID   string
	Status    OrderStatus
	ClientID  string
	Section   string
	Offset    int
	Limit     int
}
