// Package phone normaliza números de teléfono brasileños.
package phone

import (
	"errors"
	"strings"
	"unicode"
)

// MinDigits cantidad mínima de dígitos: DDD (2) + número (8).
const MinDigits = 10

// ErrTooShort el número tiene menos de MinDigits dígitos.
var ErrTooShort = errors.New("teléfono: debe tener al menos 10 dígitos")

// Digits devuelve solo los dígitos del número.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format valida y formatea el número:
//
//	11 dígitos -> (DD) DDDDD-DDDD
//	10 dígitos -> (DD) DDDD-DDDD
//
// Otras longitudes >= 10 se devuelven solo con los dígitos.
func Format(s string) (string, error) {
	d := Digits(s)
	switch {
	case len(d) < MinDigits:
		return "", ErrTooShort
	case len(d) == 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:], nil
	case len(d) == 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:], nil
	default:
		return d, nil
	}
}

// WhatsAppAddress convierte un teléfono almacenado a la dirección whatsapp:+<código país><dígitos>.
// Los números nacionales (10 u 11 dígitos) reciben el código de país; los más largos se asumen completos.
func WhatsAppAddress(s, countryCode string) (string, error) {
	d := Digits(s)
	if len(d) < MinDigits {
		return "", ErrTooShort
	}
	if countryCode != "" && len(d) <= 11 {
		d = countryCode + d
	}
	return "whatsapp:+" + d, nil
}
