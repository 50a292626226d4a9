package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/luestilo/gestao-api/pkg/optional"
)

// ProductImageInput imagen enviada al crear un producto.
type ProductImageInput struct {
	ImageURL  string `json:"image_url" validate:"required,url"`
	IsPrimary bool   `json:"is_primary"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Description    string              `json:"description" validate:"required,min=1,max=255"`
	Price          decimal.Decimal     `json:"price"`
	Barcode        *string             `json:"barcode" validate:"omitempty,max=64"`
	Section        string              `json:"section" validate:"required,max=100"`
	Stock          int                 `json:"stock" validate:"min=0"`
	ExpirationDate *Date               `json:"expiration_date"`
	IsActive       *bool               `json:"is_active"`
	Images         []ProductImageInput `json:"images" validate:"omitempty,dive"`
}

// UpdateProductRequest actualización parcial; null limpia barcode y expiration_date.
type UpdateProductRequest struct {
	Description    optional.Field[string]          `json:"description" validate:"omitempty,min=1,max=255"`
	Price          optional.Field[decimal.Decimal] `json:"price"`
	Barcode        optional.Field[string]          `json:"barcode" validate:"omitempty,max=64"`
	Section        optional.Field[string]          `json:"section" validate:"omitempty,max=100"`
	Stock          optional.Field[int]             `json:"stock"`
	ExpirationDate optional.Field[Date]            `json:"expiration_date"`
	IsActive       optional.Field[bool]            `json:"is_active"`
}

// ProductImageResponse salida de una imagen.
type ProductImageResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	ImageURL  string    `json:"image_url"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductResponse salida de un producto con sus imágenes.
type ProductResponse struct {
	ID             string                 `json:"id"`
	Description    string                 `json:"description"`
	Price          decimal.Decimal        `json:"price"`
	Barcode        *string                `json:"barcode"`
	Section        string                 `json:"section"`
	Stock          int                    `json:"stock"`
	ExpirationDate *Date                  `json:"expiration_date"`
	IsActive       bool                   `json:"is_active"`
	CreatedBy      *string                `json:"created_by"`
	Images         []ProductImageResponse `json:"images"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductFilterRequest filtros de listado ya parseados de la query.
type ProductFilterRequest struct {
	Category  string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Available *bool
	Page      PageRequest
}
