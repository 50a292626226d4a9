package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/luestilo/gestao-api/internal/application/ports"
	"github.com/luestilo/gestao-api/internal/domain"
)

// Verificar en tiempo de compilación que TwilioSender implementa MessageSender.
var _ ports.MessageSender = (*TwilioSender)(nil)

const DefaultAPIURL = "https://api.twilio.com"

// Config credenciales de la cuenta Twilio.
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string // número remitente habilitado para WhatsApp
	APIURL     string // vacío usa DefaultAPIURL; los tests apuntan a un httptest.Server
}

// TwilioSender adaptador que implementa MessageSender sobre la API REST de mensajes de Twilio.
type TwilioSender struct {
	cfg        Config
	from       string
	httpClient *http.Client
}

// NewTwilioSender construye el adaptador. El timeout por mensaje lo impone el contexto del llamador.
func NewTwilioSender(cfg Config) *TwilioSender {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	from := cfg.FromNumber
	if !strings.HasPrefix(from, "whatsapp:") {
		from = "whatsapp:" + from
	}
	return &TwilioSender{
		cfg:        cfg,
		from:       from,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type twilioMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Send publica el mensaje. Cualquier rechazo del proveedor se devuelve como domain.ErrDelivery.
func (s *TwilioSender) Send(ctx context.Context, to, body string) (*ports.MessageReceipt, error) {
	form := url.Values{}
	form.Set("From", s.from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", strings.TrimRight(s.cfg.APIURL, "/"), s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("twilio: crear request: %w", err)
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: twilio: timeout o cancelación: %v", domain.ErrDelivery, ctx.Err())
		}
		return nil, fmt.Errorf("%w: twilio: llamada HTTP fallida: %v", domain.ErrDelivery, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("%w: twilio: leer respuesta: %v", domain.ErrDelivery, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr twilioError
		if jsonErr := json.Unmarshal(raw, &apiErr); jsonErr == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: twilio error %d: %s", domain.ErrDelivery, apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: twilio HTTP %d", domain.ErrDelivery, resp.StatusCode)
	}

	var msg twilioMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: twilio: deserializar respuesta: %v", domain.ErrDelivery, err)
	}
	if msg.To == "" {
		msg.To = to
	}
	return &ports.MessageReceipt{SID: msg.SID, Status: msg.Status, To: msg.To}, nil
}
