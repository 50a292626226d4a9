package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/luestilo/gestao-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testIssuer = "lu-estilo-test"
)

func TestGenerateAndParse_ConservaClaims(t *testing.T) {
	tok, generated, err := pkgjwt.Generate(testSecret, testUserID, true, testIssuer, 30)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, claims.UserID())
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, generated.ID, claims.ID, "el jti debe viajar en el token")
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAtTime(), 5*time.Second)
}

func TestGenerate_JTIUnicoPorToken(t *testing.T) {
	_, a, err := pkgjwt.Generate(testSecret, testUserID, false, testIssuer, 30)
	require.NoError(t, err)
	_, b, err := pkgjwt.Generate(testSecret, testUserID, false, testIssuer, 30)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, testUserID, false, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, testUserID, false, testIssuer, 30)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, _, err := pkgjwt.Generate("", testUserID, false, testIssuer, 30)
	assert.Error(t, err)
}
