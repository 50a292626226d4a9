package ports

// Metrics contadores de negocio. El adaptador Prometheus vive en infrastructure/metrics.
type Metrics interface {
	OrderCreated(status string)
	OrderDeleted()
	OrderStatusChanged(status string)
	Notification(kind, result string)
}

// NopMetrics descarta todas las mediciones (tests y métricas deshabilitadas).
type NopMetrics struct{}

func (NopMetrics) OrderCreated(string)         {}
func (NopMetrics) OrderDeleted()               {}
func (NopMetrics) OrderStatusChanged(string)   {}
func (NopMetrics) Notification(string, string) {}
