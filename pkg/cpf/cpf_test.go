package cpf

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FormatoCanonico(t *testing.T) {
	cases := []string{
		"123.456.789-09",
		"12345678909",
		"123 456 789 09",
		"123-456-789.09",
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			out, err := Normalize(in)
			require.NoError(t, err)
			assert.Equal(t, "123.456.789-09", out)
		})
	}
}

func TestValidate_Rechaza(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"dígitos repetidos", "111.111.111-11", ErrRepeated},
		{"ceros", "00000000000", ErrRepeated},
		{"primer verificador", "123.456.789-19", ErrCheckDigit},
		{"segundo verificador", "123.456.789-08", ErrCheckDigit},
		{"corto", "1234567890", ErrLength},
		{"largo", "123456789091", ErrLength},
		{"vacío", "", ErrLength},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, Validate(tc.in), tc.want)
		})
	}
}

func TestGenerate_SiempreValido(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		d := Generate(r)
		require.Len(t, d, 11)
		assert.NoError(t, Validate(d), d)
	}
}

func TestDigits_IgnoraPuntuacion(t *testing.T) {
	assert.Equal(t, "12345678909", Digits("123.456.789-09"))
	assert.Equal(t, "", Digits("abc"))
}
