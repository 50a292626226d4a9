// Package notification envía mensajes de WhatsApp a clientes: avisos de pedido,
// mensajes individuales y difusiones promocionales.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/luestilo/gestao-api/internal/application/dto"
	"github.com/luestilo/gestao-api/internal/application/ports"
	"github.com/luestilo/gestao-api/internal/domain"
	"github.com/luestilo/gestao-api/internal/domain/entity"
	"github.com/luestilo/gestao-api/internal/domain/repository"
	"github.com/luestilo/gestao-api/pkg/logger"
	"github.com/luestilo/gestao-api/pkg/money"
	"github.com/luestilo/gestao-api/pkg/phone"
)

// Tipos de envío, usados como etiqueta en métricas y logs.
const (
	KindOrderCreated       = "order_created"
	KindOrderStatusChanged = "order_status_changed"
	KindDirect             = "direct"
	KindPromotional        = "promotional"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

// Config parámetros de envío.
type Config struct {
	StoreName     string
	CountryCode   string        // prefijo añadido cuando el teléfono no lo trae
	SendTimeout   time.Duration // límite por mensaje
	RatePerSecond float64       // ritmo máximo de la difusión
	Burst         int
}

// Service servicio de notificaciones. sender nil significa WhatsApp no configurado.
type Service struct {
	clients repository.ClientRepository
	sender  ports.MessageSender
	metrics ports.Metrics
	log     *logger.Logger
	cfg     Config
}

// NewService construye el servicio.
func NewService(clients repository.ClientRepository, sender ports.MessageSender, metrics ports.Metrics, log *logger.Logger, cfg Config) *Service {
	if cfg.StoreName == "" {
		cfg.StoreName = "Lu Estilo"
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = "55"
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{clients: clients, sender: sender, metrics: metrics, log: log.Named("notification"), cfg: cfg}
}

// OrderCreated avisa al cliente de que su pedido fue recibido.
func (s *Service) OrderCreated(ctx context.Context, order *entity.Order) error {
	client, err := s.client(ctx, order.ClientID)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Hello %s,\n\nWe have received your order #%s!\nCurrent status: %s\nTotal amount: %s\n\nThanks for your preference!\n%s",
		client.Name, order.ShortID(), strings.ToUpper(string(order.Status)), money.FormatBRL(order.TotalAmount), s.cfg.StoreName)
	_, err = s.send(ctx, KindOrderCreated, client, body)
	return err
}

// OrderStatusChanged avisa al cliente del nuevo estado de su pedido.
func (s *Service) OrderStatusChanged(ctx context.Context, order *entity.Order) error {
	client, err := s.client(ctx, order.ClientID)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Hello %s,\n\nThe status of your order #%s has been updated to: %s.\nTotal amount: %s\n\nThank you for choosing %s!",
		client.Name, order.ShortID(), strings.ToUpper(string(order.Status)), money.FormatBRL(order.TotalAmount), s.cfg.StoreName)
	_, err = s.send(ctx, KindOrderStatusChanged, client, body)
	return err
}

// SendToClient envía un mensaje libre a un cliente. Los errores se propagan al llamador.
func (s *Service) SendToClient(ctx context.Context, in dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	if s.sender == nil {
		return nil, fmt.Errorf("%w: whatsapp", domain.ErrNotConfigured)
	}
	client, err := s.client(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	sctx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()
	receipt, err := s.send(sctx, KindDirect, client, in.Message)
	if err != nil {
		return nil, err
	}
	return &dto.SendMessageResponse{
		SID:     receipt.SID,
		Status:  receipt.Status,
		To:      receipt.To,
		Message: in.Message,
	}, nil
}

// Broadcast envía un mensaje promocional a todos los clientes activos, o solo a los que
// compraron productos de section. Los fallos por destinatario se recogen en el resultado.
func (s *Service) Broadcast(ctx context.Context, in dto.PromotionalRequest) (*dto.PromotionalResponse, error) {
	if s.sender == nil {
		return nil, fmt.Errorf("%w: whatsapp", domain.ErrNotConfigured)
	}
	section := strings.TrimSpace(in.Section)
	recipients, err := s.clients.ListActive(ctx, section)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("%w: no hay clientes activos que cumplan el filtro", domain.ErrNotFound)
	}

	limiter := rate.NewLimiter(rate.Limit(s.cfg.RatePerSecond), s.cfg.Burst)
	results := make([]dto.BroadcastResult, 0, len(recipients))
	sent := 0
	for _, client := range recipients {
		res := dto.BroadcastResult{ClientID: client.ID}
		if err := limiter.Wait(ctx); err != nil {
			res.Status = resultError
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		body := fmt.Sprintf("Hello %s,\n\n%s\n\nBest regards,\n%s", client.Name, in.Message, s.cfg.StoreName)
		sctx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
		receipt, err := s.send(sctx, KindPromotional, client, body)
		cancel()
		if err != nil {
			res.Status = resultError
			res.Error = err.Error()
		} else {
			res.Status = resultSuccess
			res.SID = receipt.SID
			sent++
		}
		results = append(results, res)
	}

	s.log.Info().
		Str("section", section).
		Int("recipients", len(recipients)).
		Int("sent", sent).
		Msg("difusión promocional finalizada")
	return &dto.PromotionalResponse{
		Message: fmt.Sprintf("Sent promotional message to %d clients.", len(recipients)),
		Results: results,
	}, nil
}

func (s *Service) client(ctx context.Context, id string) (*entity.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return client, nil
}

func (s *Service) send(ctx context.Context, kind string, client *entity.Client, body string) (*ports.MessageReceipt, error) {
	if s.sender == nil {
		s.metrics.Notification(kind, resultError)
		return nil, fmt.Errorf("%w: whatsapp", domain.ErrNotConfigured)
	}
	to, err := phone.WhatsAppAddress(client.Phone, s.cfg.CountryCode)
	if err != nil {
		s.metrics.Notification(kind, resultError)
		return nil, fmt.Errorf("%w: teléfono del cliente %s: %v", domain.ErrInvalidInput, client.ID, err)
	}
	receipt, err := s.sender.Send(ctx, to, body)
	if err != nil {
		s.metrics.Notification(kind, resultError)
		return nil, err
	}
	s.metrics.Notification(kind, resultSuccess)
	s.log.Debug().Str("kind", kind).Str("client_id", client.ID).Str("sid", receipt.SID).Msg("mensaje enviado")
	return receipt, nil
}
