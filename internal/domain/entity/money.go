package entity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/luestilo/gestao-api/internal/domain"
)

// MaxAmount mayor importe que cabe en NUMERIC(12,2).
var MaxAmount = decimal.RequireFromString("9999999999.99")

// ValidateAmount exige un importe positivo, con a lo sumo dos decimales y dentro de MaxAmount,
// de modo que lo guardado coincide con lo calculado y total_amount sigue siendo la suma de las líneas.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s debe ser mayor que cero", domain.ErrInvalidInput, field)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: %s admite como máximo dos decimales", domain.ErrInvalidInput, field)
	}
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s supera el máximo permitido", domain.ErrInvalidInput, field)
	}
	return nil
}
