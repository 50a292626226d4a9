package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luestilo/gestao-api/internal/application/ports"
	"github.com/luestilo/gestao-api/internal/domain/entity"
)

func TestMarotoReceiptGenerator_GeneraPDF(t *testing.T) {
	now := time.Date(2025, 5, 10, 14, 30, 0, 0, time.UTC)
	item, err := entity.NewOrderItem("i1", "0190a0b1-0000-7000-8000-000000000001", "p1", 2, decimal.RequireFromString("49.90"), now)
	require.NoError(t, err)
	notes := "Entregar à tarde"
	city := "São Paulo"
	order := &entity.Order{
		ID:          "0190a0b1-0000-7000-8000-000000000001",
		ClientID:    "c1",
		Status:      entity.OrderConfirmed,
		TotalAmount: item.TotalPrice,
		Notes:       &notes,
		Items:       []entity.OrderItem{item},
		CreatedAt:   now,
	}
	client := &entity.Client{ID: "c1", Name: "Maria Souza", Email: "maria@example.com", CPF: "123.456.789-09", Phone: "(11) 98765-4321", City: &city}

	out, err := NewMarotoReceiptGenerator().Generate(ports.ReceiptData{
		StoreName: "Lu Estilo",
		Order:     order,
		Client:    client,
		Lines:     []ports.ReceiptLine{{Item: item, Description: "Vestido floral"}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "salida debe ser un PDF")
}

func TestMarotoReceiptGenerator_ExigePedido(t *testing.T) {
	_, err := NewMarotoReceiptGenerator().Generate(ports.ReceiptData{})
	assert.Error(t, err)
}

func TestAddress_SinDatos(t *testing.T) {
	street, state := "Rua A, 10", "SP"
	assert.Equal(t, "Endereço: Rua A, 10, SP", address(&entity.Client{Address: &street, State: &state}))
	assert.Equal(t, "Endereço: —", address(&entity.Client{}))
}
