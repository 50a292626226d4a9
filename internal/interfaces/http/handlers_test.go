package http_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luestilo/gestao-api/internal/application/dto"
)

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RegistroLoginRefreshLogout(t *testing.T) {
	env := buildTestApp(t)

	status, raw := doRequest(t, env.app, http.MethodPost, "/auth/register", "", map[string]any{
		"email": "ana@example.com", "username": "ana", "password": "Segredo123", "is_admin": true,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	user := decode[dto.UserResponse](t, raw)
	assert.False(t, user.IsAdmin, "el registro público ignora is_admin")

	status, raw = doRequest(t, env.app, http.MethodPost, "/auth/register", "", map[string]any{
		"email": "ana@example.com", "username": "ana2", "password": "Segredo123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "CONFLICT")

	// login por formulario: el email llega en username
	form := url.Values{"username": {"ana@example.com"}, "password": {"Segredo123"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	status, raw = doRequest(t, env.app, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "Segredo123"})
	require.Equal(t, http.StatusOK, status, string(raw))
	tok := decode[dto.TokenResponse](t, raw)
	assert.Equal(t, "bearer", tok.TokenType)
	authz := "Bearer " + tok.AccessToken

	status, raw = doRequest(t, env.app, http.MethodPost, "/auth/refresh-token", authz, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	refreshed := decode[dto.TokenResponse](t, raw)

	status, _ = doRequest(t, env.app, http.MethodGet, "/users/me", authz, nil)
	assert.Equal(t, http.StatusUnauthorized, status, "el token renovado queda revocado")

	newAuthz := "Bearer " + refreshed.AccessToken
	status, _ = doRequest(t, env.app, http.MethodPost, "/auth/logout", newAuthz, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = doRequest(t, env.app, http.MethodGet, "/users/me", newAuthz, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	env := buildTestApp(t)
	env.seedUser(t, "ana", false)
	status, raw := doRequest(t, env.app, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(raw), "UNAUTHORIZED")
}

func TestRegister_DetallesDeValidacion(t *testing.T) {
	env := buildTestApp(t)
	status, raw := doRequest(t, env.app, http.MethodPost, "/auth/register", "", map[string]any{
		"email": "no-es-email", "username": "an", "password": "fraca",
	})
	require.Equal(t, http.StatusBadRequest, status)
	out := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "VALIDATION", out.Code)
	fields := map[string]bool{}
	for _, d := range out.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["username"])
	assert.True(t, fields["password"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Clients
// ──────────────────────────────────────────────────────────────────────────────

func TestClients_CRUDCompleto(t *testing.T) {
	env := buildTestApp(t)
	_, userAuth := env.seedUser(t, "ana", false)
	_, adminAuth := env.seedUser(t, "root", true)

	body := map[string]any{"name": "Maria Silva", "email": "maria@example.com", "cpf": "52998224725", "phone": "11987654321"}
	status, raw := doRequest(t, env.app, http.MethodPost, "/clients/", userAuth, body)
	require.Equal(t, http.StatusCreated, status, string(raw))
	client := decode[dto.ClientResponse](t, raw)
	assert.Equal(t, "529.982.247-25", client.CPF)
	require.NotNil(t, client.CreatedBy)

	body["email"] = "outra@example.com"
	body["cpf"] = "529.982.247-25"
	status, raw = doRequest(t, env.app, http.MethodPost, "/clients/", userAuth, body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "CONFLICT")

	status, raw = doRequest(t, env.app, http.MethodPost, "/clients/", userAuth, map[string]any{"name": "X", "email": "x@example.com", "cpf": "12345678900", "phone": "11987654321"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "CPF inválido")

	status, raw = doRequest(t, env.app, http.MethodPut, "/clients/"+client.ID, userAuth, `{"city": "Campinas", "address": null}`)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Contains(t, string(raw), `"city":"Campinas"`)

	status, raw = doRequest(t, env.app, http.MethodGet, "/clients/?name=mar&limit=10", userAuth, nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[dto.ClientListResponse](t, raw)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 10, list.Page.Limit)

	status, _ = doRequest(t, env.app, http.MethodDelete, "/clients/"+client.ID, userAuth, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = doRequest(t, env.app, http.MethodDelete, "/clients/"+client.ID, adminAuth, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = doRequest(t, env.app, http.MethodGet, "/clients/"+client.ID, userAuth, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Products
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_ValidaQueryDeListado(t *testing.T) {
	env := buildTestApp(t)
	_, authz := env.seedUser(t, "ana", false)

	status, raw := doRequest(t, env.app, http.MethodGet, "/products/?min_price=abc", authz, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "min_price")

	status, _ = doRequest(t, env.app, http.MethodGet, "/products/?min_price=10&max_price=5", authz, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, env.app, http.MethodGet, "/products/?available=true&category=vestidos", authz, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestProducts_SubidaSinAlmacenamiento(t *testing.T) {
	env := buildTestApp(t)
	_, authz := env.seedUser(t, "ana", false)
	productID := createProduct(t, env, authz, 1)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "foto.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/products/"+productID+"/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", authz)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func createProduct(t *testing.T, env *testEnv, authz string, stock int) string {
	t.Helper()
	status, raw := doRequest(t, env.app, http.MethodPost, "/products/", authz, map[string]any{
		"description": "Vestido floral", "price": "5.00", "section": "vestidos", "stock": stock,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.ProductResponse](t, raw).ID
}

func createClient(t *testing.T, env *testEnv, authz string) string {
	t.Helper()
	status, raw := doRequest(t, env.app, http.MethodPost, "/clients/", authz, map[string]any{
		"name": "Maria Silva", "email": "maria@example.com", "cpf": "52998224725", "phone": "11987654321",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.ClientResponse](t, raw).ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Orders
// ──────────────────────────────────────────────────────────────────────────────

func TestOrders_FlujoCompleto(t *testing.T) {
	env := buildTestApp(t)
	_, userAuth := env.seedUser(t, "ana", false)
	_, adminAuth := env.seedUser(t, "root", true)
	clientID := createClient(t, env, userAuth)
	productID := createProduct(t, env, userAuth, 5)

	order := map[string]any{
		"client_id": clientID,
		"items":     []map[string]any{{"product_id": productID, "quantity": 5, "unit_price": "5.00"}},
	}
	status, raw := doRequest(t, env.app, http.MethodPost, "/orders/", userAuth, order)
	require.Equal(t, http.StatusCreated, status, string(raw))
	created := decode[dto.OrderResponse](t, raw)
	assert.Equal(t, "25", created.TotalAmount.String())

	status, raw = doRequest(t, env.app, http.MethodPost, "/orders/", userAuth, order)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "INSUFFICIENT_STOCK")

	status, raw = doRequest(t, env.app, http.MethodPut, "/orders/"+created.ID, userAuth, map[string]any{"status": "delivered"})
	require.Equal(t, http.StatusOK, status, string(raw))
	status, raw = doRequest(t, env.app, http.MethodPut, "/orders/"+created.ID, userAuth, map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "INVALID_TRANSITION")

	status, _ = doRequest(t, env.app, http.MethodPut, "/orders/"+created.ID, userAuth, map[string]any{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, raw = doRequest(t, env.app, http.MethodGet, "/orders/?status=delivered&start_date=2000-01-01", userAuth, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Len(t, decode[dto.OrderListResponse](t, raw).Items, 1)

	status, _ = doRequest(t, env.app, http.MethodGet, "/orders/?start_date=01/01/2024", userAuth, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, env.app, http.MethodDelete, "/orders/"+created.ID, adminAuth, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, raw = doRequest(t, env.app, http.MethodGet, "/products/"+productID, userAuth, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5, decode[dto.ProductResponse](t, raw).Stock, "el borrado restituye el stock")

	env.engine.Wait()
	assert.GreaterOrEqual(t, int(env.sender.sent.Load()), 2, "aviso de alta y de cambio de estado")
}

func TestOrders_ValidaLineas(t *testing.T) {
	env := buildTestApp(t)
	_, authz := env.seedUser(t, "ana", false)
	status, raw := doRequest(t, env.app, http.MethodPost, "/orders/", authz, map[string]any{
		"client_id": "no-uuid",
		"items":     []map[string]any{{"product_id": "no-uuid", "quantity": 0, "unit_price": "1"}},
	})
	require.Equal(t, http.StatusBadRequest, status)
	out := decode[dto.ErrorResponse](t, raw)
	fields := map[string]bool{}
	for _, d := range out.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["client_id"])
	assert.True(t, fields["items[0].quantity"])
}

func TestOrders_PrecioConTresDecimales(t *testing.T) {
	env := buildTestApp(t)
	_, authz := env.seedUser(t, "ana", false)
	clientID := createClient(t, env, authz)
	productID := createProduct(t, env, authz, 10)

	status, raw := doRequest(t, env.app, http.MethodPost, "/orders/", authz, map[string]any{
		"client_id": clientID,
		"items": []map[string]any{
			{"product_id": productID, "quantity": 3, "unit_price": "3.333"},
			{"product_id": productID, "quantity": 1, "unit_price": "1.115"},
		},
	})
	require.Equal(t, http.StatusBadRequest, status, string(raw))
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, raw).Code)

	status, raw = doRequest(t, env.app, http.MethodGet, "/products/"+productID, authz, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 10, decode[dto.ProductResponse](t, raw).Stock)

	status, raw = doRequest(t, env.app, http.MethodPost, "/products/", authz, map[string]any{
		"description": "Blusa", "price": "19.999", "section": "blusas", "stock": 1,
	})
	require.Equal(t, http.StatusBadRequest, status, string(raw))
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, raw).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// WhatsApp y health
// ──────────────────────────────────────────────────────────────────────────────

func TestWhatsApp_SoloAdmin(t *testing.T) {
	env := buildTestApp(t)
	_, userAuth := env.seedUser(t, "ana", false)
	_, adminAuth := env.seedUser(t, "root", true)
	clientID := createClient(t, env, userAuth)

	status, _ := doRequest(t, env.app, http.MethodPost, "/whatsapp/send-message", userAuth, map[string]string{"client_id": clientID, "message": "Oi"})
	assert.Equal(t, http.StatusForbidden, status)

	status, raw := doRequest(t, env.app, http.MethodPost, "/whatsapp/send-message", adminAuth, map[string]string{"client_id": clientID, "message": "Oi"})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Contains(t, string(raw), "whatsapp:+5511987654321")

	status, raw = doRequest(t, env.app, http.MethodPost, "/whatsapp/send-promotional-message?message=Liquida%C3%A7%C3%A3o", adminAuth, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Contains(t, string(raw), "Sent promotional message to 1 clients.")

	status, _ = doRequest(t, env.app, http.MethodPost, "/whatsapp/send-promotional-message", adminAuth, map[string]string{"message": "x", "section": "sapatos"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, env.app, http.MethodPost, "/whatsapp/send-promotional-message", adminAuth, nil)
	assert.Equal(t, http.StatusBadRequest, status, "message es obligatorio")
}

func TestHealth_EstadoDelServicio(t *testing.T) {
	env := buildTestApp(t)
	for _, path := range []string{"/", "/health"} {
		status, raw := doRequest(t, env.app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(raw), `"status":"ok"`)
	}
}
