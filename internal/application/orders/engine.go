// Package orders contiene el motor de pedidos: alta con descuento de stock,
// cambios de estado, borrado con devolución de stock y avisos al cliente.
package orders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/luestilo/gestao-api/internal/application/dto"
	"github.com/luestilo/gestao-api/internal/application/ports"
	"github.com/luestilo/gestao-api/internal/domain"
	"github.com/luestilo/gestao-api/internal/domain/entity"
	"github.com/luestilo/gestao-api/internal/domain/repository"
	"github.com/luestilo/gestao-api/pkg/logger"
	"github.com/luestilo/gestao-api/pkg/optional"
)

const defaultNotifyTimeout = 10 * time.Second

// Config parámetros del motor.
type Config struct {
	NotifyTimeout time.Duration // límite de cada aviso al cliente
	StoreName     string        // cabecera del comprobante PDF
}

// Engine motor de pedidos.
type Engine struct {
	tx       TxRunner
	orders   repository.OrderRepository
	products repository.ProductRepository
	clients  repository.ClientRepository
	notifier Notifier
	receipts ports.ReceiptGenerator
	metrics  ports.Metrics
	log      *logger.Logger
	cfg      Config

	inflight sync.WaitGroup
}

// NewEngine construye el motor inyectando todas sus dependencias.
// notifier, receipts y metrics pueden ser nil.
func NewEngine(
	tx TxRunner,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	notifier Notifier,
	receipts ports.ReceiptGenerator,
	metrics ports.Metrics,
	log *logger.Logger,
	cfg Config,
) *Engine {
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}
	if cfg.StoreName == "" {
		cfg.StoreName = "Lu Estilo"
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		tx:       tx,
		orders:   orderRepo,
		products: productRepo,
		clients:  clientRepo,
		notifier: notifier,
		receipts: receipts,
		metrics:  metrics,
		log:      log.Named("orders"),
		cfg:      cfg,
	}
}

// line cantidad total pedida de un producto (las repeticiones se suman).
type line struct {
	productID string
	quantity  int
}

// Create valida todas las líneas antes de escribir nada y persiste cabecera, líneas y
// descuentos de stock en una sola transacción. Tras el commit avisa al cliente.
//
// El precio unitario se toma tal cual llega en la petición; no se compara con el del catálogo.
func (e *Engine) Create(ctx context.Context, actorID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el pedido debe tener al menos una línea", domain.ErrInvalidInput)
	}
	status := entity.OrderPending
	if in.Status != "" {
		st, err := entity.ParseOrderStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}

	now := time.Now().UTC()
	order := &entity.Order{
		ID:        entity.NewID(),
		ClientID:  in.ClientID,
		Status:    status,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if actorID != "" {
		order.CreatedBy = &actorID
	}

	// ── 1. Líneas y cantidades agregadas por producto ─────────────────────────
	var lines []line
	index := make(map[string]int)
	for _, req := range in.Items {
		item, err := entity.NewOrderItem(entity.NewID(), order.ID, req.ProductID, req.Quantity, req.UnitPrice, now)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
		if i, ok := index[item.ProductID]; ok {
			lines[i].quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(lines)
		lines = append(lines, line{productID: item.ProductID, quantity: item.Quantity})
	}
	order.TotalAmount = entity.SumItems(order.Items)
	if err := entity.ValidateAmount("total_amount", order.TotalAmount); err != nil {
		return nil, err
	}

	err := e.tx.RunOrders(ctx, func(
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
		clientRepo repository.ClientRepository,
	) error {
		// ── 2. Validación completa antes de mutar ─────────────────────────────
		client, err := clientRepo.GetByID(ctx, order.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, order.ClientID)
		}
		for _, l := range lines {
			product, err := productRepo.GetByID(ctx, l.productID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.productID)
			}
			if product.Stock < l.quantity {
				return fmt.Errorf("%w: producto %s (disponible %d, pedido %d)",
					domain.ErrInsufficientStock, product.ID, product.Stock, l.quantity)
			}
		}

		// ── 3. Cabecera, líneas y descuento condicional de stock ──────────────
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		for i := range order.Items {
			if err := orderRepo.CreateItem(ctx, &order.Items[i]); err != nil {
				return err
			}
		}
		for _, l := range lines {
			// Otra transacción pudo consumir el stock tras la lectura: el UPDATE condicional lo detecta.
			if err := productRepo.DecrementStock(ctx, l.productID, l.quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.OrderCreated(string(order.Status))
	e.log.Info().
		Str("order_id", order.ID).
		Str("client_id", order.ClientID).
		Str("total", order.TotalAmount.StringFixed(2)).
		Int("items", len(order.Items)).
		Msg("pedido creado")
	e.notify(ctx, "order_created", *order)
	return ToOrderResponse(order), nil
}

// Get obtiene un pedido con sus líneas.
func (e *Engine) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := e.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// Update actualización parcial de status y notes. Total y líneas no cambian.
// Si el estado cambia se avisa al cliente tras el commit.
func (e *Engine) Update(ctx context.Context, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	patch := entity.OrderPatch{Notes: in.Notes}
	switch {
	case in.Status.IsNull():
		patch.Status = optional.Null[entity.OrderStatus]()
	case in.Status.Set:
		raw, _ := in.Status.Get()
		st, err := entity.ParseOrderStatus(raw)
		if err != nil {
			return nil, err
		}
		patch.Status = optional.Of(st)
	}

	var updated entity.Order
	var previous entity.OrderStatus
	err := e.tx.RunOrders(ctx, func(orderRepo repository.OrderRepository, _ repository.ProductRepository, _ repository.ClientRepository) error {
		current, err := orderRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		previous = current.Status
		updated, err = current.Apply(patch, time.Now().UTC())
		if err != nil {
			return err
		}
		return orderRepo.Update(ctx, &updated)
	})
	if err != nil {
		return nil, err
	}

	if updated.Status != previous {
		e.metrics.OrderStatusChanged(string(updated.Status))
		e.log.Info().
			Str("order_id", updated.ID).
			Str("from", string(previous)).
			Str("to", string(updated.Status)).
			Msg("estado de pedido actualizado")
		e.notify(ctx, "order_status_changed", updated)
	}
	return ToOrderResponse(&updated), nil
}

// Delete devuelve al stock las cantidades de cada línea y elimina el pedido, todo en la misma transacción.
func (e *Engine) Delete(ctx context.Context, id string) error {
	err := e.tx.RunOrders(ctx, func(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, _ repository.ClientRepository) error {
		order, err := orderRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		for _, item := range order.Items {
			if err := productRepo.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return orderRepo.Delete(ctx, order.ID)
	})
	if err != nil {
		return err
	}
	e.metrics.OrderDeleted()
	e.log.Info().Str("order_id", id).Msg("pedido eliminado, stock restituido")
	return nil
}

// List lista pedidos en orden de creación. end_date incluye el día completo.
func (e *Engine) List(ctx context.Context, in dto.OrderFilterRequest) (*dto.OrderListResponse, error) {
	page := in.Page
	page.Normalize()
	filter := entity.OrderFilter{
		OrderID:  strings.TrimSpace(in.OrderID),
		ClientID: strings.TrimSpace(in.ClientID),
		Section:  strings.TrimSpace(in.Section),
		Offset:   page.Skip,
		Limit:    page.Limit,
	}
	if in.Status != "" {
		st, err := entity.ParseOrderStatus(in.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	if in.StartDate != nil {
		start := in.StartDate.Time
		filter.StartDate = &start
	}
	if in.EndDate != nil {
		end := in.EndDate.AddDate(0, 0, 1)
		filter.EndDate = &end
	}
	if filter.StartDate != nil && filter.EndDate != nil && !filter.StartDate.Before(*filter.EndDate) {
		return nil, fmt.Errorf("%w: start_date posterior a end_date", domain.ErrInvalidInput)
	}

	list, err := e.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *ToOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Skip: page.Skip, Limit: page.Limit, Count: len(items)},
	}, nil
}

// Receipt genera el comprobante PDF del pedido. Devuelve los bytes y el nombre de archivo.
func (e *Engine) Receipt(ctx context.Context, id string) ([]byte, string, error) {
	if e.receipts == nil {
		return nil, "", fmt.Errorf("%w: generador de comprobantes", domain.ErrNotConfigured)
	}
	order, err := e.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	client, err := e.clients.GetByID(ctx, order.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener cliente: %w", err)
	}
	if client == nil {
		return nil, "", fmt.Errorf("%w: cliente %s", domain.ErrNotFound, order.ClientID)
	}

	descriptions := make(map[string]string)
	lines := make([]ports.ReceiptLine, 0, len(order.Items))
	for _, item := range order.Items {
		desc, ok := descriptions[item.ProductID]
		if !ok {
			product, err := e.products.GetByID(ctx, item.ProductID)
			if err != nil {
				return nil, "", fmt.Errorf("comprobante: obtener producto: %w", err)
			}
			desc = item.ProductID
			if product != nil {
				desc = product.Description
			}
			descriptions[item.ProductID] = desc
		}
		lines = append(lines, ports.ReceiptLine{Item: item, Description: desc})
	}

	pdf, err := e.receipts.Generate(ports.ReceiptData{
		StoreName: e.cfg.StoreName,
		Order:     order,
		Client:    client,
		Lines:     lines,
	})
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generar PDF: %w", err)
	}
	return pdf, fmt.Sprintf("pedido-%s.pdf", order.ShortID()), nil
}

// Wait espera a que terminen los avisos en curso (apagado y tests).
func (e *Engine) Wait() {
	e.inflight.Wait()
}

func (e *Engine) get(ctx context.Context, id string) (*entity.Order, error) {
	order, err := e.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// notify envía el aviso en segundo plano con un contexto desligado de la petición y acotado por NotifyTimeout.
// El resultado se registra y se descarta.
func (e *Engine) notify(ctx context.Context, kind string, order entity.Order) {
	if e.notifier == nil {
		return
	}
	send := e.notifier.OrderCreated
	if kind == "order_status_changed" {
		send = e.notifier.OrderStatusChanged
	}
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.NotifyTimeout)
		defer cancel()
		if err := send(nctx, &order); err != nil {
			e.log.Warn().Err(err).
				Str("order_id", order.ID).
				Str("kind", kind).
				Msg("aviso al cliente no entregado; el pedido no se ve afectado")
			return
		}
		e.log.Debug().Str("order_id", order.ID).Str("kind", kind).Msg("aviso al cliente enviado")
	}()
}

// ToOrderResponse convierte el pedido en su DTO.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:          o.ID,
		ClientID:    o.ClientID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		Notes:       o.Notes,
		CreatedBy:   o.CreatedBy,
		Items:       make([]dto.OrderItemResponse, 0, len(o.Items)),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ID:         it.ID,
			OrderID:    it.OrderID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
			CreatedAt:  it.CreatedAt,
		})
	}
	return out
}
