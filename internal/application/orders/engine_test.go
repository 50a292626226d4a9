package orders_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luestilo/gestao-api/internal/application/dto"
	"github.com/luestilo/gestao-api/internal/application/orders"
	"github.com/luestilo/gestao-api/internal/domain"
	"github.com/luestilo/gestao-api/internal/domain/entity"
	"github.com/luestilo/gestao-api/internal/testutil/memstore"
	"github.com/luestilo/gestao-api/pkg/optional"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// recordingNotifier guarda los avisos recibidos; err se devuelve en cada llamada.
type recordingNotifier struct {
	mu      sync.Mutex
	created []string
	changed []entity.OrderStatus
	err     error
	block   bool // espera a que venza el contexto
	ctxErr  error
}

func (n *recordingNotifier) OrderCreated(ctx context.Context, o *entity.Order) error {
	return n.record(ctx, func() { n.created = append(n.created, o.ID) })
}

func (n *recordingNotifier) OrderStatusChanged(ctx context.Context, o *entity.Order) error {
	return n.record(ctx, func() { n.changed = append(n.changed, o.Status) })
}

func (n *recordingNotifier) record(ctx context.Context, fn func()) error {
	if n.block {
		<-ctx.Done()
		n.mu.Lock()
		n.ctxErr = ctx.Err()
		n.mu.Unlock()
		return ctx.Err()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	fn()
	return n.err
}

type fixture struct {
	store    *memstore.Store
	engine   *orders.Engine
	notifier *recordingNotifier
	client   *entity.Client
}

func newFixture(t *testing.T, cfg orders.Config) *fixture {
	t.Helper()
	store := memstore.New()
	n := &recordingNotifier{}
	engine := orders.NewEngine(store, store.Orders(), store.Products(), store.Clients(), n, nil, nil, nil, cfg)

	now := time.Now().UTC()
	client := &entity.Client{
		ID: entity.NewID(), Name: "Maria Silva", Email: "maria@example.com",
		CPF: "529.982.247-25", Phone: "(11) 98765-4321", IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.Clients().Create(context.Background(), client))
	return &fixture{store: store, engine: engine, notifier: n, client: client}
}

func (f *fixture) product(t *testing.T, section string, price string, stock int) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID: entity.NewID(), Description: "Vestido " + section, Price: decimal.RequireFromString(price),
		Section: section, Stock: stock, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func createReq(clientID string, items ...dto.OrderItemInput) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{ClientID: clientID, Items: items}
}

func item(productID string, qty int, price string) dto.OrderItemInput {
	return dto.OrderItemInput{ProductID: productID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DescuentaStockYCalculaTotal(t *testing.T) {
	f := newFixture(t, orders.Config{})
	p := f.product(t, "vestidos", "5.00", 5)

	out, err := f.engine.Create(context.Background(), "", createReq(f.client.ID, item(p.ID, 5, "5.00")))
	require.NoError(t, err)
	f.engine.Wait()

	assert.Equal(t, "pending", out.Status)
	assert.True(t, decimal.RequireFromString("25.00").Equal(out.TotalAmount), "total = 5 × 5.00")
	require.Len(t, out.Items, 1)
	assert.True(t, decimal.RequireFromString("25.00").Equal(out.Items[0].TotalPrice))
	assert.Equal(t, 0, f.stock(t, p.ID))
	assert.Equal(t, []string{out.ID}, f.notifier.created)
}

func TestCreate_TotalSumaVariasLineas(t *testing.T) {
	f := newFixture(t, orders.Config{})
	blusa := f.product(t, "blusas", "10.00", 10)
	saia := f.product(t, "saias", "5.00", 10)

	out, err := f.engine.Create(context.Background(), "", createReq(f.client.ID, item(blusa.ID, 2, "10.0"), item(saia.ID, 1, "5.0")))
	require.NoError(t, err)
	f.engine.Wait()

	require.Len(t, out.Items, 2)
	assert.True(t, decimal.NewFromInt(20).Equal(out.Items[0].TotalPrice), "2 × 10.0")
	assert.True(t, decimal.NewFromInt(5).Equal(out.Items[1].TotalPrice), "1 × 5.0")
	assert.True(t, decimal.NewFromInt(25).Equal(out.TotalAmount), "total = 20 + 5")

	got, err := f.engine.Get(context.Background(), out.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(got.TotalAmount))
	assert.Equal(t, 8, f.stock(t, blusa.ID))
	assert.Equal(t, 9, f.stock(t, saia.ID))
}

func TestCreate_RechazaFraccionesDeCentavo(t *testing.T) {
	f := newFixture(t, orders.Config{})
	p := f.product(t, "vestidos", "5.00", 10)

	for _, price := range []string{"0.001", "3.333"} {
		_, err := f.engine.Create(context.Background(), "", createReq(f.client.ID, item(p.ID, 3, price)))
		require.Error(t, err, price)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), price)
	}

	list, err := f.engine.List(context.Background(), dto.OrderFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, 10, f.stock(t, p.ID), "el stock no se toca")
	assert.Empty(t, f.notifier.created)
}

func TestCreate_StockInsuficienteNoDejaRastro(t *testing.T) {
	f := newFixture(t, orders.Config{})
	p := f.product(t, "vestidos", "5.00", 5)

	_, err := f.engine.Create(context.Background(), "", createReq(f.client.ID, item(p.ID, 5, "5.00")))
	require.NoError(t, err)

	_, err = f.engine.Create(context.Background(), "", createReq(f.client.ID, item(p.ID, 1, "5.00")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	list, err := f.engine.List(context.Background(), dto.OrderFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1, "el pedido rechazado no debe persistir")
	assert.Equal(t, 0, f.stock(t, p.ID))
	f.engine.Wait()
}

func TestCreate_SumaProductosRepetidos(t *testing.T) {
	f := newFixture(t, orders.Config{})
	p := f.product(t, "blusas", "10.00", 5)

	// 3 + 3 > 5 aunque cada línea por separado cabe en el stock
	_, err := f.engine.Create(context.Background(), "", createReq(f.client.ID, item(p.ID, 3, "10.00"), item(p.ID, 3, "10.00")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 5, f.stock(t, p.ID))
}

func TestCreate_FalloEnSegundaLineaRevierteLaPrimera(t *testing.T) {
	f := newFixture(t, orders.Config{})
	a := f.product(t, "blusas", "10.00", 10)
	b := f.product(t, "saias", "20.00", 1)

	_, err := f.engine.Create(context.Background(), "", createReq(f.client.ID, item(a.ID, 2, "10.00"), item(b.ID, 2, "20.00")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 10, f.stock(t, a.ID))
	assert.Equal(t, 1, f.stock(t, b.ID))
}

func TestCreate_ClienteOProductoInexistente(t *testing.T) {
	f := newFixture(t, orders.Config{})
	p := f.product(t, "blusas", "10.00", 10)

	_, err := f.engine.Create(context.Background(), "", createReq(entity.NewID(), item(p.ID, 1, "10.00")))
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.engine.Create(context.Background(), "", createReq(f.client.ID, item(entity.NewID(), 1, "10.00")))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 10, f.stock(t, p.ID))
}

func TestCreate_RechazaEntradaInvalida(t *testing.T) {
	f := newFixture(t, orders.Config{})
	p := f.product(t, "blusas", "10.00", 10)

	cases := []struct {
		name string
		req  dto.CreateOrderRequest
	}{
		{"sin líneas", createReq(f.client.ID)},
		{"cantidad cero", createReq(f.client.ID, item(p.ID, 0, "10.00"))},
		{"estado desconocido", dto.CreateOrderRequest{ClientID: f.client.ID, Items: []dto.OrderItemInput{item(p.ID, 1, "10.00")}, Status: "lost"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.Create(context.Background(), "", tc.req)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
		})
	}
	assert.Equal(t, 10, f.stock(t, p.ID))
}

func TestCreate_FalloDelAvisoNoAfectaAlPedido(t *testing.T) {
	f := newFixture(t, orders.Config{})
	f.notifier.err = domain.ErrDelivery
	p := f.product(t, "vestidos", "5.00", 5)

	out, err := f.engine.Create(context.Background(), "", createReq(f.client.ID, item(p.ID, 1, "5.00")))
	require.NoError(t, err)
	f.engine.Wait()

	got, err := f.engine.Get(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, got.ID)
}

func TestCreate_AvisoAcotadoPorTimeout(t *testing.T) {
	f := newFixture(t, orders.Config{NotifyTimeout: 20 * time.Millisecond})
	f.notifier.block = true
	p := f.product(t, "vestidos", "5.00", 5)

	start := time.Now()
	_, err := f.engine.Create(context.Background(), "", createReq(f.client.ID, item(p.ID, 1, "5.00")))
	require.NoError(t, err)
	f.engine.Wait()

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, f.notifier.ctxErr, context.DeadlineExceeded)
}

func TestCreate_AvisoSobreviveCancelacionDeLaPeticion(t *testing.T) {
	f := newFixture(t, orders.Config{})
	p := f.product(t, "vestidos", "5.00", 5)

	ctx, cancel := context.WithCancel(context.Background())
	out, err := f.engine.Create(ctx, "", createReq(f.client.ID, item(p.ID, 1, "5.00")))
	require.NoError(t, err)
	cancel()
	f.engine.Wait()
	assert.Equal(t, []string{out.ID}, f.notifier.created)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete / List
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_TransicionesDeEstado(t *testing.T) {
	f := newFixture(t, orders.Config{})
	p := f.product(t, "vestidos", "5.00", 5)
	out, err := f.engine.Create(context.Background(), "", createReq(f.client.ID, item(p.ID, 1, "5.00")))
	require.NoError(t, err)

	updated, err := f.engine.Update(context.Background(), out.ID, dto.UpdateOrderRequest{Status: optional.Of("shipped")})
	require.NoError(t, err)
	assert.Equal(t, "shipped", updated.Status)
	assert.True(t, out.TotalAmount.Equal(updated.TotalAmount))

	_, err = f.engine.Update(context.Background(), out.ID, dto.UpdateOrderRequest{Status: optional.Of("pending")})
	assert.True(t, errors.Is(err, domain.ErrInvalidStatusTransition), "no se retrocede en el flujo")

	_, err = f.engine.Update(context.Background(), out.ID, dto.UpdateOrderRequest{Status: optional.Of("delivered")})
	require.NoError(t, err)
	_, err = f.engine.Update(context.Background(), out.ID, dto.UpdateOrderRequest{Status: optional.Of("cancelled")})
	assert.True(t, errors.Is(err, domain.ErrInvalidStatusTransition), "delivered es terminal")

	f.engine.Wait()
	assert.Equal(t, []entity.OrderStatus{entity.OrderShipped, entity.OrderDelivered}, f.notifier.changed)
}

func TestUpdate_SoloNotasNoAvisa(t *testing.T) {
	f := newFixture(t, orders.Config{})
	p := f.product(t, "vestidos", "5.00", 5)
	out, err := f.engine.Create(context.Background(), "", createReq(f.client.ID, item(p.ID, 1, "5.00")))
	require.NoError(t, err)

	updated, err := f.engine.Update(context.Background(), out.ID, dto.UpdateOrderRequest{Notes: optional.Of("entregar à tarde")})
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "entregar à tarde", *updated.Notes)
	assert.Equal(t, "pending", updated.Status)

	cleared, err := f.engine.Update(context.Background(), out.ID, dto.UpdateOrderRequest{Notes: optional.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.Notes)

	f.engine.Wait()
	assert.Empty(t, f.notifier.changed)
}

func TestUpdate_NoExiste(t *testing.T) {
	f := newFixture(t, orders.Config{})
	_, err := f.engine.Update(context.Background(), entity.NewID(), dto.UpdateOrderRequest{Status: optional.Of("confirmed")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDelete_RestituyeStock(t *testing.T) {
	f := newFixture(t, orders.Config{})
	a := f.product(t, "blusas", "10.00", 10)
	b := f.product(t, "saias", "20.00", 3)
	out, err := f.engine.Create(context.Background(), "", createReq(f.client.ID, item(a.ID, 4, "10.00"), item(b.ID, 3, "20.00")))
	require.NoError(t, err)
	assert.Equal(t, 6, f.stock(t, a.ID))
	assert.Equal(t, 0, f.stock(t, b.ID))

	require.NoError(t, f.engine.Delete(context.Background(), out.ID))
	assert.Equal(t, 10, f.stock(t, a.ID))
	assert.Equal(t, 3, f.stock(t, b.ID))

	_, err = f.engine.Get(context.Background(), out.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(f.engine.Delete(context.Background(), out.ID), domain.ErrNotFound))
	f.engine.Wait()
}

func TestList_Filtros(t *testing.T) {
	f := newFixture(t, orders.Config{})
	blusa := f.product(t, "blusas", "10.00", 10)
	saia := f.product(t, "saias", "20.00", 10)

	first, err := f.engine.Create(context.Background(), "", createReq(f.client.ID, item(blusa.ID, 1, "10.00")))
	require.NoError(t, err)
	second, err := f.engine.Create(context.Background(), "", createReq(f.client.ID, item(saia.ID, 1, "20.00")))
	require.NoError(t, err)
	_, err = f.engine.Update(context.Background(), second.ID, dto.UpdateOrderRequest{Status: optional.Of("confirmed")})
	require.NoError(t, err)
	f.engine.Wait()

	all, err := f.engine.List(context.Background(), dto.OrderFilterRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Equal(t, first.ID, all.Items[0].ID, "orden de creación")

	bySection, err := f.engine.List(context.Background(), dto.OrderFilterRequest{Section: "saias"})
	require.NoError(t, err)
	require.Len(t, bySection.Items, 1)
	assert.Equal(t, second.ID, bySection.Items[0].ID)

	byStatus, err := f.engine.List(context.Background(), dto.OrderFilterRequest{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, byStatus.Items, 1)
	assert.Equal(t, first.ID, byStatus.Items[0].ID)

	today := dto.NewDate(time.Now().UTC())
	byDate, err := f.engine.List(context.Background(), dto.OrderFilterRequest{StartDate: &today, EndDate: &today})
	require.NoError(t, err)
	assert.Len(t, byDate.Items, 2, "end_date incluye el día completo")

	paged, err := f.engine.List(context.Background(), dto.OrderFilterRequest{Page: dto.PageRequest{Skip: 1, Limit: 1}})
	require.NoError(t, err)
	require.Len(t, paged.Items, 1)
	assert.Equal(t, second.ID, paged.Items[0].ID)
	assert.Equal(t, 1, paged.Page.Count)
}

func TestList_RangoInvalido(t *testing.T) {
	f := newFixture(t, orders.Config{})
	start := dto.NewDate(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	end := dto.NewDate(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	_, err := f.engine.List(context.Background(), dto.OrderFilterRequest{StartDate: &start, EndDate: &end})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.engine.List(context.Background(), dto.OrderFilterRequest{Status: "lost"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReceipt_SinConfigurar(t *testing.T) {
	f := newFixture(t, orders.Config{})
	_, _, err := f.engine.Receipt(context.Background(), entity.NewID())
	assert.True(t, errors.Is(err, domain.ErrNotConfigured))
}
