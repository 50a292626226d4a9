package repository

import (
	"context"

	"github.com/luestilo/gestao-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product e imágenes (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	// Delete devuelve domain.ErrConflict si el producto está referenciado por pedidos.
	Delete(ctx context.Context, id string) error
	AddImage(ctx context.Context, image *entity.ProductImage) error

	// DecrementStock descuenta quantity solo si hay stock suficiente (UPDATE condicional).
	// Devuelve domain.ErrInsufficientStock si la fila no cumple stock >= quantity.
	DecrementStock(ctx context.Context, productID string, quantity int) error
	// IncrementStock devuelve unidades al stock (borrado de pedido).
	IncrementStock(ctx context.Context, productID string, quantity int) error
}
