package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/luestilo/gestao-api/internal/application/dto"
	"github.com/luestilo/gestao-api/internal/application/ports"
	"github.com/luestilo/gestao-api/internal/domain"
	"github.com/luestilo/gestao-api/internal/domain/entity"
	"github.com/luestilo/gestao-api/internal/domain/repository"
	"github.com/luestilo/gestao-api/pkg/optional"
)

// CatalogTxRunner ejecuta el alta de producto e imágenes en una sola transacción.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error
}

// ProductUseCase casos de uso CRUD para productos e imágenes.
type ProductUseCase struct {
	repo    repository.ProductRepository
	tx      CatalogTxRunner
	storage ports.ObjectStorage // nil si no hay almacenamiento configurado
}

// NewProductUseCase construye el caso de uso. storage puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, tx CatalogTxRunner, storage ports.ObjectStorage) *ProductUseCase {
	return &ProductUseCase{repo: repo, tx: tx, storage: storage}
}

// Create crea un producto con sus imágenes.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now().UTC()
	product := &entity.Product{
		ID:          entity.NewID(),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Barcode:     trimmedOrNil(in.Barcode),
		Section:     strings.TrimSpace(in.Section),
		Stock:       in.Stock,
		IsActive:    true,
		CreatedBy:   nullableID(actorID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.ExpirationDate != nil {
		t := in.ExpirationDate.Time
		product.ExpirationDate = &t
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	for _, img := range in.Images {
		product.Images = append(product.Images, entity.ProductImage{
			ID:        entity.NewID(),
			ProductID: product.ID,
			ImageURL:  img.ImageURL,
			IsPrimary: img.IsPrimary,
			CreatedAt: now,
		})
	}

	err := uc.tx.RunCatalog(ctx, func(repo repository.ProductRepository) error {
		if product.Barcode != nil {
			existing, err := repo.GetByBarcode(ctx, *product.Barcode)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.ErrBarcodeAlreadyExists
			}
		}
		return repo.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto con sus imágenes.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos; category filtra por sección y available por activo con stock.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	page := in.Page
	page.Normalize()
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return nil, fmt.Errorf("%w: min_price mayor que max_price", domain.ErrInvalidInput)
	}
	list, err := uc.repo.List(ctx, entity.ProductFilter{
		Section:   strings.TrimSpace(in.Category),
		MinPrice:  in.MinPrice,
		MaxPrice:  in.MaxPrice,
		Available: in.Available,
		Offset:    page.Skip,
		Limit:     page.Limit,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Skip: page.Skip, Limit: page.Limit, Count: len(items)},
	}, nil
}

// Update actualización parcial; las reglas de precio y stock se vuelven a comprobar.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Description.IsNull() || in.Price.IsNull() || in.Section.IsNull() || in.Stock.IsNull() || in.IsActive.IsNull() {
		return nil, fmt.Errorf("%w: solo barcode y expiration_date admiten null", domain.ErrInvalidInput)
	}

	patch := entity.ProductPatch{
		Description: in.Description,
		Price:       in.Price,
		Barcode:     in.Barcode,
		Section:     in.Section,
		Stock:       in.Stock,
		IsActive:    in.IsActive,
	}
	if in.ExpirationDate.IsNull() {
		patch.ExpirationDate = optional.Null[time.Time]()
	} else if d, ok := in.ExpirationDate.Get(); ok {
		patch.ExpirationDate = optional.Of(d.Time)
	}

	updated := product.Apply(patch, time.Now().UTC())
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if updated.Barcode != nil && (product.Barcode == nil || *product.Barcode != *updated.Barcode) {
		existing, err := uc.repo.GetByBarcode(ctx, *updated.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != updated.ID {
			return nil, domain.ErrBarcodeAlreadyExists
		}
	}
	if err := uc.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return toProductResponse(&updated), nil
}

// Delete elimina un producto y sus imágenes. ErrConflict si está en algún pedido.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// ImageUpload archivo recibido para subir como imagen de producto.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	IsPrimary   bool
}

// UploadImage sube la imagen al almacenamiento de objetos y la asocia al producto.
func (uc *ProductUseCase) UploadImage(ctx context.Context, productID string, in ImageUpload) (*dto.ProductImageResponse, error) {
	if uc.storage == nil {
		return nil, fmt.Errorf("%w: almacenamiento de imágenes", domain.ErrNotConfigured)
	}
	if !strings.HasPrefix(in.ContentType, "image/") {
		return nil, fmt.Errorf("%w: el archivo debe ser una imagen", domain.ErrInvalidInput)
	}
	if _, err := uc.get(ctx, productID); err != nil {
		return nil, err
	}

	img := &entity.ProductImage{
		ID:        entity.NewID(),
		ProductID: productID,
		IsPrimary: in.IsPrimary,
		CreatedAt: time.Now().UTC(),
	}
	key := fmt.Sprintf("products/%s/%s%s", productID, img.ID, strings.ToLower(path.Ext(in.Filename)))
	url, err := uc.storage.Upload(ctx, key, in.ContentType, in.Body, in.Size)
	if err != nil {
		return nil, fmt.Errorf("subir imagen: %w", err)
	}
	img.ImageURL = url
	if err := uc.repo.AddImage(ctx, img); err != nil {
		return nil, err
	}
	out := toProductImageResponse(*img)
	return &out, nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	out := &dto.ProductResponse{
		ID:          p.ID,
		Description: p.Description,
		Price:       p.Price,
		Barcode:     p.Barcode,
		Section:     p.Section,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedBy:   p.CreatedBy,
		Images:      make([]dto.ProductImageResponse, 0, len(p.Images)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ExpirationDate != nil {
		d := dto.NewDate(*p.ExpirationDate)
		out.ExpirationDate = &d
	}
	for _, img := range p.Images {
		out.Images = append(out.Images, toProductImageResponse(img))
	}
	return out
}

func toProductImageResponse(img entity.ProductImage) dto.ProductImageResponse {
	return dto.ProductImageResponse{
		ID:        img.ID,
		ProductID: img.ProductID,
		ImageURL:  img.ImageURL,
		IsPrimary: img.IsPrimary,
		CreatedAt: img.CreatedAt,
	}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
