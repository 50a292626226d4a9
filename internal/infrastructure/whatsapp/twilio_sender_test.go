package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luestilo/gestao-api/internal/domain"
)

func TestTwilioSender_Send_Exito(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+14155238886", r.PostForm.Get("From"))
		assert.Equal(t, "whatsapp:+5511987654321", r.PostForm.Get("To"))
		assert.Equal(t, "Olá", r.PostForm.Get("Body"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1","status":"queued","to":"whatsapp:+5511987654321"}`))
	}))
	defer srv.Close()

	s := NewTwilioSender(Config{AccountSID: "AC123", AuthToken: "secret", FromNumber: "+14155238886", APIURL: srv.URL})
	receipt, err := s.Send(context.Background(), "whatsapp:+5511987654321", "Olá")
	require.NoError(t, err)
	assert.Equal(t, "SM1", receipt.SID)
	assert.Equal(t, "queued", receipt.Status)
	assert.Equal(t, "whatsapp:+5511987654321", receipt.To)
}

func TestTwilioSender_Send_ErrorDelProveedor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number","status":400}`))
	}))
	defer srv.Close()

	s := NewTwilioSender(Config{AccountSID: "AC123", AuthToken: "secret", FromNumber: "whatsapp:+14155238886", APIURL: srv.URL})
	_, err := s.Send(context.Background(), "whatsapp:+55", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDelivery)
	assert.Contains(t, err.Error(), "21211")
}

func TestTwilioSender_Send_VenceTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	s := NewTwilioSender(Config{AccountSID: "AC123", AuthToken: "secret", FromNumber: "+1", APIURL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.Send(ctx, "whatsapp:+5511987654321", "x")
	assert.ErrorIs(t, err, domain.ErrDelivery)
}
