package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luestilo/gestao-api/internal/application/auth"
	"github.com/luestilo/gestao-api/internal/application/dto"
	"github.com/luestilo/gestao-api/internal/domain"
	"github.com/luestilo/gestao-api/internal/infrastructure/tokenstore"
	"github.com/luestilo/gestao-api/internal/testutil/memstore"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	uc := auth.NewAuthUseCase(store.Users(), tokenstore.NewMemoryDenylist(), auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 30, Issuer: "gestao-api-test",
	})
	return uc, store
}

func register(t *testing.T, uc *auth.AuthUseCase, email, username string) *dto.UserResponse {
	t.Helper()
	u, err := uc.Register(context.Background(), dto.RegisterRequest{Email: email, Username: username, Password: "Segredo123"})
	require.NoError(t, err)
	return u
}

func TestRegister_AltaYDuplicados(t *testing.T) {
	uc, store := newAuth(t)

	u := register(t, uc, "  Ana@Example.com ", "ana")
	assert.Equal(t, "ana@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsAdmin)

	stored, err := store.Users().GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Segredo123", stored.PasswordHash, "la contraseña se guarda con hash")

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Email: "ana@example.com", Username: "otra", Password: "Segredo123"})
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))
	assert.True(t, domain.IsConflict(err))

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Email: "otra@example.com", Username: "ana", Password: "Segredo123"})
	assert.True(t, errors.Is(err, domain.ErrUsernameAlreadyExists))
}

func TestLogin_Credenciales(t *testing.T) {
	uc, store := newAuth(t)
	u := register(t, uc, "ana@example.com", "ana")

	tok, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ANA@example.com", Password: "Segredo123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, 30*60, tok.ExpiresIn)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "errada"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: "Segredo123"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	// usuario desactivado
	stored, err := store.Users().GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	stored.IsActive = false
	require.NoError(t, store.Users().Update(context.Background(), stored))
	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "Segredo123"})
	assert.True(t, errors.Is(err, domain.ErrInactiveUser))
}

func TestAuthenticate_RefreshYLogoutRevocan(t *testing.T) {
	uc, _ := newAuth(t)
	register(t, uc, "ana@example.com", "ana")
	ctx := context.Background()

	tok, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "Segredo123"})
	require.NoError(t, err)

	user, claims, err := uc.Authenticate(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)

	refreshed, err := uc.Refresh(ctx, user, claims)
	require.NoError(t, err)
	assert.NotEqual(t, tok.AccessToken, refreshed.AccessToken)

	_, _, err = uc.Authenticate(ctx, tok.AccessToken)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized), "el token anterior queda revocado")

	user, claims, err = uc.Authenticate(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	require.NoError(t, uc.Logout(ctx, claims))
	_, _, err = uc.Authenticate(ctx, refreshed.AccessToken)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.NotNil(t, user)
}

func TestAuthenticate_TokenInvalido(t *testing.T) {
	uc, _ := newAuth(t)
	_, _, err := uc.Authenticate(context.Background(), "no-es-un-jwt")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
