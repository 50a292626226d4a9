package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProduccionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Output: &buf}).Named("orders")

	l.Info().Str("order_id", "abc").Msg("pedido creado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pedido creado", entry["message"])
	assert.Equal(t, "orders", entry["component"])
	assert.Equal(t, "abc", entry["order_id"])
}

func TestNew_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "error", Output: &buf})

	l.Info().Msg("no debe salir")
	assert.Empty(t, buf.String())

	l.Error().Msg("sí debe salir")
	assert.Contains(t, buf.String(), "sí debe salir")
}

func TestDelegados_TraceSoloConNivelTrace(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Env: "production", Level: "debug", Output: &buf}).Trace().Msg("oculto")
	assert.Empty(t, buf.String())

	New(Config{Env: "production", Level: "trace", Output: &buf}).Trace().Msg("visible")
	assert.Contains(t, buf.String(), `"level":"trace"`)

	Nop().Error().Msg("descartado")
}
