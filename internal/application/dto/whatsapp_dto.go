package dto

// SendMessageRequest mensaje libre a un cliente.
type SendMessageRequest struct {
	ClientID string `json:"client_id" validate:"required,uuid"`
	Message  string `json:"message" validate:"required,max=1600"`
}

// SendMessageResponse resultado de un envío individual.
type SendMessageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// PromotionalRequest difusión a clientes activos, opcionalmente filtrados por sección comprada.
type PromotionalRequest struct {
	Message string `json:"message" query:"message" validate:"required,max=1600"`
	Section string `json:"section" query:"section" validate:"omitempty,max=100"`
}

// BroadcastResult resultado por destinatario.
type BroadcastResult struct {
	ClientID string `json:"client_id"`
	Status   string `json:"status"` // success | error
	SID      string `json:"sid,omitempty"`
	Error    string `json:"error,omitempty"`
}

// PromotionalResponse resumen de la difusión.
type PromotionalResponse struct {
	Message string            `json:"message"`
	Results []BroadcastResult `json:"results"`
}
