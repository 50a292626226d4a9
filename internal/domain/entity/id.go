package entity

import "github.com/google/uuid"

// NewID genera un UUIDv7: ordenable por tiempo, así las líneas de un pedido conservan el orden de alta.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
