package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luestilo/gestao-api/internal/domain"
	"github.com/luestilo/gestao-api/pkg/optional"
)

// Product representa un artículo del catálogo.
type Product struct {
	ID             string
	Description    string
	Price          decimal.Decimal
	Barcode        *string
	Section        string
	Stock          int
	ExpirationDate *time.Time
	IsActive       bool
	CreatedBy      *string
	Images         []ProductImage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProductImage imagen asociada a un producto; se elimina en cascada con él.
type ProductImage struct {
	ID        string
	ProductID string
	ImageURL  string
	IsPrimary bool
	CreatedAt time.Time
}

// Available indica si el producto se puede vender ahora.
func (p *Product) Available() bool {
	return p.IsActive && p.Stock > 0
}

// Validate comprueba las reglas de precio y stock; se aplica en alta y en actualización parcial.
func (p *Product) Validate() error {
	if p.Description == "" || p.Section == "" {
		return fmt.Errorf("%w: description y section son obligatorios", domain.ErrInvalidInput)
	}
	if err := ValidateAmount("price", p.Price); err != nil {
		return err
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// ProductPatch campos modificables de un producto.
type ProductPatch struct {
	Description    optional.Field[string]
	Price          optional.Field[decimal.Decimal]
	Barcode        optional.Field[string]
	Section        optional.Field[string]
	Stock          optional.Field[int]
	ExpirationDate optional.Field[time.Time]
	IsActive       optional.Field[bool]
}

// Apply devuelve una copia del producto con los campos presentes sobrescritos.
// Barcode y ExpirationDate aceptan null para limpiarse.
func (p Product) Apply(patch ProductPatch, now time.Time) Product {
	optional.Apply(&p.Description, patch.Description)
	optional.Apply(&p.Price, patch.Price)
	optional.ApplyNullable(&p.Barcode, patch.Barcode)
	optional.Apply(&p.Section, patch.Section)
	optional.Apply(&p.Stock, patch.Stock)
	optional.ApplyNullable(&p.ExpirationDate, patch.ExpirationDate)
	optional.Apply(&p.IsActive, patch.IsActive)
	p.UpdatedAt = now
	return p
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Section   string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Available *bool
	Offset    int
	Limit     int
}
