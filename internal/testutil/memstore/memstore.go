// Package memstore implementa los repositorios en memoria para tests de casos de uso y HTTP.
// Reproduce las reglas que en PostgreSQL imponen las restricciones: unicidad de email,
// username, dígitos del CPF y barcode; RESTRICT en pedidos y descuento condicional de stock.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/luestilo/gestao-api/internal/domain"
	"github.com/luestilo/gestao-api/internal/domain/entity"
	"github.com/luestilo/gestao-api/internal/domain/repository"
	"github.com/luestilo/gestao-api/pkg/cpf"
)

// Store estado compartido por todos los repositorios.
type Store struct {
	txMu sync.Mutex // serializa transacciones
	mu   sync.Mutex

	users    map[string]entity.User
	clients  map[string]entity.Client
	products map[string]entity.Product
	orders   map[string]entity.Order

	// orden de inserción, equivale a created_at ASC
	userIDs, clientIDs, productIDs, orderIDs []string
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		users:    make(map[string]entity.User),
		clients:  make(map[string]entity.Client),
		products: make(map[string]entity.Product),
		orders:   make(map[string]entity.Order),
	}
}

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Clients repositorio de clientes.
func (s *Store) Clients() repository.ClientRepository { return clientRepo{s} }

// Products repositorio de productos.
func (s *Store) Products() repository.ProductRepository { return productRepo{s} }

// Orders repositorio de pedidos.
func (s *Store) Orders() repository.OrderRepository { return orderRepo{s} }

// RunOrders ejecuta fn de forma atómica: si devuelve error se restaura el estado previo.
func (s *Store) RunOrders(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
) error) error {
	return s.atomic(func() error { return fn(s.Orders(), s.Products(), s.Clients()) })
}

// RunCatalog igual que RunOrders para el alta de productos.
func (s *Store) RunCatalog(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error {
	return s.atomic(func() error { return fn(s.Products()) })
}

func (s *Store) atomic(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snap := s.snapshot()
	s.mu.Unlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

type snapshot struct {
	products map[string]entity.Product
	orders   map[string]entity.Order
	clients  map[string]entity.Client
	pIDs     []string
	oIDs     []string
	cIDs     []string
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		products: make(map[string]entity.Product, len(s.products)),
		orders:   make(map[string]entity.Order, len(s.orders)),
		clients:  make(map[string]entity.Client, len(s.clients)),
		pIDs:     slices.Clone(s.productIDs),
		oIDs:     slices.Clone(s.orderIDs),
		cIDs:     slices.Clone(s.clientIDs),
	}
	for k, v := range s.products {
		snap.products[k] = cloneProduct(v)
	}
	for k, v := range s.orders {
		snap.orders[k] = cloneOrder(v)
	}
	for k, v := range s.clients {
		snap.clients[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.products, s.orders, s.clients = snap.products, snap.orders, snap.clients
	s.productIDs, s.orderIDs, s.clientIDs = snap.pIDs, snap.oIDs, snap.cIDs
}

// ── Users ────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
		if existing.Username == u.Username {
			return domain.ErrUsernameAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	r.s.userIDs = append(r.s.userIDs, u.ID)
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email })
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username })
}

func (r userRepo) find(match func(entity.User) bool) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.s.users {
		if id == u.ID {
			continue
		}
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
		if existing.Username == u.Username {
			return domain.ErrUsernameAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) List(_ context.Context, offset, limit int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.User, 0)
	for _, id := range page(r.s.userIDs, offset, limit) {
		u := r.s.users[id]
		out = append(out, &u)
	}
	return out, nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.users, id)
	r.s.userIDs = remove(r.s.userIDs, id)
	// ON DELETE SET NULL
	for k, c := range r.s.clients {
		if c.CreatedBy != nil && *c.CreatedBy == id {
			c.CreatedBy = nil
			r.s.clients[k] = c
		}
	}
	for k, p := range r.s.products {
		if p.CreatedBy != nil && *p.CreatedBy == id {
			p.CreatedBy = nil
			r.s.products[k] = p
		}
	}
	for k, o := range r.s.orders {
		if o.CreatedBy != nil && *o.CreatedBy == id {
			o.CreatedBy = nil
			r.s.orders[k] = o
		}
	}
	return nil
}

// ── Clients ──────────────────────────────────────────────────────────────────

type clientRepo struct{ s *Store }

func (r clientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.unique(c); err != nil {
		return err
	}
	r.s.clients[c.ID] = *c
	r.s.clientIDs = append(r.s.clientIDs, c.ID)
	return nil
}

func (r clientRepo) unique(c *entity.Client) error {
	for id, existing := range r.s.clients {
		if id == c.ID {
			continue
		}
		if existing.Email == c.Email {
			return domain.ErrEmailAlreadyExists
		}
		if cpf.Digits(existing.CPF) == cpf.Digits(c.CPF) {
			return domain.ErrCPFAlreadyExists
		}
	}
	return nil
}

func (r clientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.clients[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r clientRepo) GetByEmail(_ context.Context, email string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.clients {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, nil
}

func (r clientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.unique(c); err != nil {
		return err
	}
	r.s.clients[c.ID] = *c
	return nil
}

func (r clientRepo) List(_ context.Context, f entity.ClientFilter) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for _, id := range r.s.clientIDs {
		c := r.s.clients[id]
		if f.Name != "" && !containsFold(c.Name, f.Name) {
			continue
		}
		if f.Email != "" && !containsFold(c.Email, f.Email) {
			continue
		}
		ids = append(ids, id)
	}
	out := make([]*entity.Client, 0)
	for _, id := range page(ids, f.Offset, f.Limit) {
		c := r.s.clients[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r clientRepo) ListActive(_ context.Context, section string) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Client, 0)
	for _, id := range r.s.clientIDs {
		c := r.s.clients[id]
		if !c.IsActive {
			continue
		}
		if section != "" && !r.s.boughtFrom(id, section) {
			continue
		}
		out = append(out, &c)
	}
	return out, nil
}

func (s *Store) boughtFrom(clientID, section string) bool {
	for _, o := range s.orders {
		if o.ClientID == clientID && s.orderHasSection(o, section) {
			return true
		}
	}
	return false
}

func (s *Store) orderHasSection(o entity.Order, section string) bool {
	for _, it := range o.Items {
		if p, ok := s.products[it.ProductID]; ok && p.Section == section {
			return true
		}
	}
	return false
}

func (r clientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[id]; !ok {
		return domain.ErrNotFound
	}
	for _, o := range r.s.orders {
		if o.ClientID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.clients, id)
	r.s.clientIDs = remove(r.s.clientIDs, id)
	return nil
}

// ── Products ─────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.unique(p); err != nil {
		return err
	}
	r.s.products[p.ID] = cloneProduct(*p)
	r.s.productIDs = append(r.s.productIDs, p.ID)
	return nil
}

func (r productRepo) unique(p *entity.Product) error {
	if p.Barcode == nil {
		return nil
	}
	for id, existing := range r.s.products {
		if id != p.ID && existing.Barcode != nil && *existing.Barcode == *p.Barcode {
			return domain.ErrBarcodeAlreadyExists
		}
	}
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		p = cloneProduct(p)
		return &p, nil
	}
	return nil, nil
}

func (r productRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			p = cloneProduct(p)
			return &p, nil
		}
	}
	return nil, nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := r.unique(p); err != nil {
		return err
	}
	updated := cloneProduct(*p)
	updated.Images = current.Images
	r.s.products[p.ID] = updated
	return nil
}

func (r productRepo) List(_ context.Context, f entity.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for _, id := range r.s.productIDs {
		p := r.s.products[id]
		if f.Section != "" && p.Section != f.Section {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if f.Available != nil && p.Available() != *f.Available {
			continue
		}
		ids = append(ids, id)
	}
	out := make([]*entity.Product, 0)
	for _, id := range page(ids, f.Offset, f.Limit) {
		p := cloneProduct(r.s.products[id])
		out = append(out, &p)
	}
	return out, nil
}

func (r productRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, o := range r.s.orders {
		for _, it := range o.Items {
			if it.ProductID == id {
				return domain.ErrConflict
			}
		}
	}
	delete(r.s.products, id)
	r.s.productIDs = remove(r.s.productIDs, id)
	return nil
}

func (r productRepo) AddImage(_ context.Context, img *entity.ProductImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[img.ProductID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Images = append(slices.Clone(p.Images), *img)
	r.s.products[p.ID] = p
	return nil
}

func (r productRepo) DecrementStock(_ context.Context, productID string, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok || p.Stock < quantity {
		return domain.ErrInsufficientStock
	}
	p.Stock -= quantity
	r.s.products[productID] = p
	return nil
}

func (r productRepo) IncrementStock(_ context.Context, productID string, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok {
		return nil
	}
	p.Stock += quantity
	r.s.products[productID] = p
	return nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[o.ClientID]; !ok {
		return domain.ErrNotFound
	}
	stored := cloneOrder(*o)
	stored.Items = nil
	r.s.orders[o.ID] = stored
	r.s.orderIDs = append(r.s.orderIDs, o.ID)
	return nil
}

func (r orderRepo) CreateItem(_ context.Context, item *entity.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[item.OrderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Items = append(slices.Clone(o.Items), *item)
	r.s.orders[o.ID] = o
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orders[id]; ok {
		o = cloneOrder(o)
		return &o, nil
	}
	return nil, nil
}

func (r orderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r orderRepo) Update(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	current.Status = o.Status
	current.Notes = o.Notes
	current.UpdatedAt = o.UpdatedAt
	r.s.orders[o.ID] = current
	return nil
}

func (r orderRepo) List(_ context.Context, f entity.OrderFilter) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for _, id := range r.s.orderIDs {
		o := r.s.orders[id]
		switch {
		case f.OrderID != "" && o.ID != f.OrderID,
			f.Status != "" && o.Status != f.Status,
			f.ClientID != "" && o.ClientID != f.ClientID,
			f.StartDate != nil && o.CreatedAt.Before(*f.StartDate),
			f.EndDate != nil && !o.CreatedAt.Before(*f.EndDate),
			f.Section != "" && !r.s.orderHasSection(o, f.Section):
			continue
		}
		ids = append(ids, id)
	}
	out := make([]*entity.Order, 0)
	for _, id := range page(ids, f.Offset, f.Limit) {
		o := cloneOrder(r.s.orders[id])
		out = append(out, &o)
	}
	return out, nil
}

func (r orderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.orders, id)
	r.s.orderIDs = remove(r.s.orderIDs, id)
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func page(ids []string, offset, limit int) []string {
	if offset >= len(ids) {
		return nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	return ids
}

func remove(ids []string, id string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func cloneProduct(p entity.Product) entity.Product {
	p.Images = slices.Clone(p.Images)
	return p
}

func cloneOrder(o entity.Order) entity.Order {
	o.Items = slices.Clone(o.Items)
	return o
}
