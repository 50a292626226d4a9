package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/luestilo/gestao-api/internal/domain"
	"github.com/luestilo/gestao-api/internal/domain/entity"
	"github.com/luestilo/gestao-api/internal/domain/repository"
	"github.com/luestilo/gestao-api/pkg/cpf"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, name, email, cpf, phone, address, city, state, postal_code, is_active, created_by, created_at, updated_at`

// ClientRepo implementación del puerto ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador de persistencia para clientes. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un cliente. cpf_digits se deriva del CPF y lleva el constraint de unicidad.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, email, cpf, cpf_digits, phone, address, city, state, postal_code, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.CPF, cpf.Digits(c.CPF), c.Phone, c.Address, c.City, c.State, c.PostalCode,
		c.IsActive, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapClientError(err, "insert client")
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
}

// GetByEmail obtiene un cliente por email.
func (r *ClientRepo) GetByEmail(ctx context.Context, email string) (*entity.Client, error) {
	return r.getOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE email = $1`, email)
}

// Update persiste los campos modificables (el CPF no cambia).
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, email = $3, phone = $4, address = $5, city = $6, state = $7,
			postal_code = $8, is_active = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.City, c.State, c.PostalCode, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		return mapClientError(err, "update client")
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista clientes filtrando por nombre y email (coincidencia parcial, sin comodines del usuario).
func (r *ClientRepo) List(ctx context.Context, f entity.ClientFilter) ([]*entity.Client, error) {
	query := `
		SELECT ` + clientColumns + ` FROM clients
		WHERE ($1 = '' OR name ILIKE $1)
		  AND ($2 = '' OR email ILIKE $2)
		ORDER BY created_at, id
		OFFSET $3 LIMIT $4`
	return r.list(ctx, query, containsPattern(f.Name), containsPattern(f.Email), f.Offset, f.Limit)
}

// ListActive clientes activos; si section no es vacío, solo los que tienen pedidos con productos de esa sección.
func (r *ClientRepo) ListActive(ctx context.Context, section string) ([]*entity.Client, error) {
	query := `
		SELECT ` + clientColumns + ` FROM clients c
		WHERE c.is_active
		  AND ($1 = '' OR EXISTS (
			SELECT 1 FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			JOIN products p ON p.id = oi.product_id
			WHERE o.client_id = c.id AND p.section = $1))
		ORDER BY c.created_at, c.id`
	return r.list(ctx, query, section)
}

// Delete elimina un cliente. Falla con ErrConflict si tiene pedidos (FK RESTRICT).
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el cliente tiene pedidos", domain.ErrConflict)
		}
		return fmt.Errorf("delete client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClientRepo) getOne(ctx context.Context, query string, arg any) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (r *ClientRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.CPF, &c.Phone, &c.Address, &c.City, &c.State,
		&c.PostalCode, &c.IsActive, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func mapClientError(err error, op string) error {
	switch uniqueConstraint(err) {
	case "clients_email_key":
		return domain.ErrEmailAlreadyExists
	case "clients_cpf_digits_key":
		return domain.ErrCPFAlreadyExists
	}
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}
