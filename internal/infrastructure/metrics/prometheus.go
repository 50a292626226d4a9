// Package metrics expone contadores de negocio y de HTTP en formato Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luestilo/gestao-api/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus registro propio con las métricas de la API.
type Prometheus struct {
	registry *prometheus.Registry

	ordersCreated       *prometheus.CounterVec
	ordersDeleted       prometheus.Counter
	orderStatusChanges  *prometheus.CounterVec
	notifications       *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewPrometheus crea el registro e incluye los colectores de proceso y runtime de Go.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Pedidos creados, por estado inicial.",
		}, []string{"status"}),
		ordersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_deleted_total",
			Help: "Pedidos eliminados con stock restituido.",
		}),
		orderStatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_status_changes_total",
			Help: "Cambios de estado de pedido, por estado destino.",
		}, []string{"status"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Mensajes de WhatsApp enviados, por tipo y resultado.",
		}, []string{"kind", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.ordersCreated,
		p.ordersDeleted,
		p.orderStatusChanges,
		p.notifications,
		p.httpRequests,
		p.httpRequestDuration,
	)
	return p
}

func (p *Prometheus) OrderCreated(status string) { p.ordersCreated.WithLabelValues(status).Inc() }

func (p *Prometheus) OrderDeleted() { p.ordersDeleted.Inc() }

func (p *Prometheus) OrderStatusChanged(status string) {
	p.orderStatusChanges.WithLabelValues(status).Inc()
}

func (p *Prometheus) Notification(kind, result string) {
	p.notifications.WithLabelValues(kind, result).Inc()
}

// ObserveRequest registra una petición HTTP. route es el patrón de la ruta, no la URL concreta.
func (p *Prometheus) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler devuelve el handler HTTP de exposición (/metrics).
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
