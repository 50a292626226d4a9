// Package cpf valida y normaliza el CPF (Cadastro de Pessoas Físicas) brasileño.
package cpf

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"unicode"
)

const length = 11

var (
	ErrLength     = errors.New("cpf: debe tener 11 dígitos")
	ErrRepeated   = errors.New("cpf: todos los dígitos son iguales")
	ErrCheckDigit = errors.New("cpf: dígito verificador inválido")
)

// Digits devuelve solo los dígitos del CPF, sin puntuación.
func Digits(s string) string {
	out := make([]byte, 0, length)
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

// Validate comprueba longitud, dígitos repetidos y los dos dígitos verificadores (módulo 11).
// s puede venir como "123.456.789-09" o "12345678909".
func Validate(s string) error {
	d := Digits(s)
	if len(d) != length {
		return fmt.Errorf("%w, se encontraron %d", ErrLength, len(d))
	}
	if allSame(d) {
		return ErrRepeated
	}
	if d[9] != checkDigit(d[:9]) || d[10] != checkDigit(d[:10]) {
		return ErrCheckDigit
	}
	return nil
}

// Normalize valida el CPF y lo devuelve en el formato canónico XXX.XXX.XXX-XX.
func Normalize(s string) (string, error) {
	if err := Validate(s); err != nil {
		return "", err
	}
	return Format(Digits(s)), nil
}

// Format aplica la máscara XXX.XXX.XXX-XX a 11 dígitos; otras longitudes se devuelven tal cual.
func Format(digits string) string {
	if len(digits) != length {
		return digits
	}
	return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:]
}

// Generate produce un CPF válido (sin formato) usando el generador indicado. Se usa en el seeder y en tests.
func Generate(r *rand.Rand) string {
	for {
		base := make([]byte, 9, length)
		for i := range base {
			base[i] = byte('0' + r.IntN(10))
		}
		if allSame(string(base)) {
			continue
		}
		base = append(base, checkDigit(string(base)))
		base = append(base, checkDigit(string(base)))
		return string(base)
	}
}

// checkDigit calcula el dígito verificador para los dígitos dados con pesos n+1..2.
func checkDigit(digits string) byte {
	weight := len(digits) + 1
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (weight - i)
	}
	rem := sum % 11
	if rem < 2 {
		return '0'
	}
	return byte('0' + (11 - rem))
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
