package ports

import "context"

// MessageReceipt confirmación devuelta por el proveedor de mensajería.
type MessageReceipt struct {
	SID    string
	Status string
	To     string
}

// MessageSender define el puerto de salida para el envío de mensajes de WhatsApp.
// Cualquier adaptador (Twilio, mock) debe implementar esta interfaz.
// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
type MessageSender interface {
	// Send entrega body al número to (formato whatsapp:+55...).
	// Devuelve domain.ErrDelivery envuelto si el proveedor rechaza el mensaje.
	Send(ctx context.Context, to, body string) (*MessageReceipt, error)
}
