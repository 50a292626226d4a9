package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/luestilo/gestao-api/internal/domain"
	"github.com/luestilo/gestao-api/internal/domain/entity"
	"github.com/luestilo/gestao-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, description, price, barcode, section, stock, expiration_date, is_active, created_by, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste el producto y sus imágenes. Llamar dentro de una tx para que sea atómico.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Description, p.Price, p.Barcode, p.Section, p.Stock, p.ExpirationDate,
		p.IsActive, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapProductError(err, "insert product")
	}
	for i := range p.Images {
		if err := r.AddImage(ctx, &p.Images[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene un producto por ID con sus imágenes.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE barcode = $1`, barcode)
}

// Update persiste los campos modificables, incluido el stock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET description = $2, price = $3, barcode = $4, section = $5, stock = $6,
			expiration_date = $7, is_active = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Description, p.Price, p.Barcode, p.Section, p.Stock, p.ExpirationDate, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return mapProductError(err, "update product")
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con filtros de sección, rango de precio y disponibilidad.
func (r *ProductRepo) List(ctx context.Context, f entity.ProductFilter) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE ($1 = '' OR section = $1)
		  AND ($2::numeric IS NULL OR price >= $2)
		  AND ($3::numeric IS NULL OR price <= $3)
		  AND ($4::boolean IS NULL
		       OR ($4 AND stock > 0 AND is_active)
		       OR (NOT $4 AND (stock = 0 OR NOT is_active)))
		ORDER BY created_at, id
		OFFSET $5 LIMIT $6`
	rows, err := r.q.Query(ctx, query, f.Section, f.MinPrice, f.MaxPrice, f.Available, f.Offset, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadImages(ctx, list...); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete elimina un producto; las imágenes caen en cascada.
// Falla con ErrConflict si alguna línea de pedido lo referencia.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el producto está referenciado por pedidos", domain.ErrConflict)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddImage asocia una imagen al producto.
func (r *ProductRepo) AddImage(ctx context.Context, img *entity.ProductImage) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_images (id, product_id, image_url, is_primary, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		img.ID, img.ProductID, img.ImageURL, img.IsPrimary, img.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert product image: %w", err)
	}
	return nil
}

// DecrementStock descuenta de forma condicional: si otra transacción ya consumió el stock, no afecta filas.
func (r *ProductRepo) DecrementStock(ctx context.Context, productID string, quantity int) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`,
		productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrInsufficientStock, productID)
	}
	return nil
}

// IncrementStock devuelve unidades al producto.
func (r *ProductRepo) IncrementStock(ctx context.Context, productID string, quantity int) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`,
		productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadImages(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// loadImages carga las imágenes de todos los productos en una sola consulta.
func (r *ProductRepo) loadImages(ctx context.Context, products ...*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Images = []entity.ProductImage{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, image_url, is_primary, created_at
		FROM product_images WHERE product_id = ANY($1::uuid[])
		ORDER BY is_primary DESC, created_at, id`, ids)
	if err != nil {
		return fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var img entity.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.IsPrimary, &img.CreatedAt); err != nil {
			return fmt.Errorf("scan product image: %w", err)
		}
		if p, ok := byID[img.ProductID]; ok {
			p.Images = append(p.Images, img)
		}
	}
	return rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Description, &p.Price, &p.Barcode, &p.Section, &p.Stock, &p.ExpirationDate,
		&p.IsActive, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func mapProductError(err error, op string) error {
	if uniqueConstraint(err) == "products_barcode_key" {
		return domain.ErrBarcodeAlreadyExists
	}
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if isCheckViolation(err) {
		return fmt.Errorf("%w: precio o stock fuera de rango", domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}
