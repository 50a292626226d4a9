package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "lu-estilo-api", cfg.App.Name)
	assert.Equal(t, 30, cfg.JWT.Expiration)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "*", cfg.HTTP.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.Notifier.Timeout)
	assert.Equal(t, "55", cfg.Notifier.CountryCode)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.False(t, cfg.S3.Enabled())
}

func TestLoad_SinSecretoFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_WHATSAPP_NUMBER", "+14155238886")
	t.Setenv("NOTIFIER_TIMEOUT_SECONDS", "3")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("S3_BUCKET", "imagens")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.WhatsApp.Enabled())
	assert.Equal(t, 3*time.Second, cfg.Notifier.Timeout)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.S3.Enabled())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "lu", Password: "p@ss", DBName: "vendas", SSLMode: "disable"}
	assert.Equal(t, "postgres://lu:p%40ss@db:5432/vendas?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
