package ports

import "github.com/luestilo/gestao-api/internal/domain/entity"

// ReceiptLine línea del comprobante con la descripción del producto ya resuelta.
type ReceiptLine struct {
	Item        entity.OrderItem
	Description string
}

// ReceiptData datos completos para el comprobante PDF de un pedido.
type ReceiptData struct {
	StoreName string
	Order     *entity.Order
	Client    *entity.Client
	Lines     []ReceiptLine
}

// ReceiptGenerator genera la representación PDF de un pedido.
type ReceiptGenerator interface {
	Generate(data ReceiptData) ([]byte, error)
}
