package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/luestilo/gestao-api/internal/domain"
)

func TestValidateAmount_Importes(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"0.01", true},
		{"10.5", true},
		{"5.00", true},
		{"5.000", true}, // ceros finales no cambian el valor
		{"9999999999.99", true},
		{"0", false},
		{"-1.00", false},
		{"0.001", false},
		{"3.333", false},
		{"10000000000.00", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			err := ValidateAmount("price", decimal.RequireFromString(tc.in))
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestNewOrderItem_RechazaFraccionesDeCentavo(t *testing.T) {
	_, err := NewOrderItem("i", "o", "p", 3, decimal.RequireFromString("3.333"), time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewOrderItem_RechazaTotalFueraDeRango(t *testing.T) {
	_, err := NewOrderItem("i", "o", "p", 2, MaxAmount, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductValidate_PrecioConTresDecimales(t *testing.T) {
	p := Product{Description: "Blusa", Section: "blusas", Price: decimal.RequireFromString("19.999")}
	assert.ErrorIs(t, p.Validate(), domain.ErrInvalidInput)

	p.Price = decimal.RequireFromString("19.99")
	assert.NoError(t, p.Validate())
}
