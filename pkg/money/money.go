// Package money formatea importes en reales (BRL).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL devuelve el importe con separadores brasileños: "R$ 1.234,56".
func FormatBRL(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return "R$ " + printer.Sprintf("%.2f", f)
}
