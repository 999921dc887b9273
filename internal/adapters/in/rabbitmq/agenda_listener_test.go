package rabbitmq

import (
	"io"
	"testing"
	"time"

	"github.com/autotaller/recepcion-agenda/internal/adapters/out/logger"
	"github.com/autotaller/recepcion-agenda/internal/config"
	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestListener(t *testing.T, received *[]domain.AgendaChange) *AgendaChangeListener {
	t.Helper()
	l, err := logger.NewConsoleLogger("UTC", "ERROR", io.Discard)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.RabbitMQ.Exchange = "recepcion.citas"

	return &AgendaChangeListener{
		cfg:    cfg,
		logger: l,
		onChange: func(change domain.AgendaChange) {
			*received = append(*received, change)
		},
	}
}

func TestNewListenerDisabled(t *testing.T) {
	l, err := logger.NewConsoleLogger("UTC", "ERROR", io.Discard)
	require.NoError(t, err)

	listener, err := NewAgendaChangeListener(&config.Config{}, l, nil)

	require.NoError(t, err)
	assert.Nil(t, listener)
	assert.NoError(t, listener.Stop())
}

func TestProcessMessage(t *testing.T) {
	var received []domain.AgendaChange
	listener := newTestListener(t, &received)

	err := listener.processMessage("recepcion.citas.created", []byte(`{"cita_id":7,"fecha_cita":"2024-06-10"}`))

	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, int64(7), received[0].AppointmentID)
	assert.Equal(t, domain.AgendaChangeCreated, received[0].Action)
	assert.Equal(t, json_types.NewDate(2024, time.June, 10), received[0].Date)
}

func TestProcessMessageWithoutBody(t *testing.T) {
	var received []domain.AgendaChange
	listener := newTestListener(t, &received)

	require.NoError(t, listener.processMessage("recepcion.citas.deleted", nil))

	require.Len(t, received, 1)
	assert.Equal(t, domain.AgendaChangeDeleted, received[0].Action)
	assert.True(t, received[0].Date.IsZero())
}

func TestProcessMessageRejects(t *testing.T) {
	tests := []struct {
		name       string
		routingKey string
		body       string
	}{
		{name: "foreign exchange", routingKey: "inventario.citas.created", body: `{}`},
		{name: "unknown action", routingKey: "recepcion.citas.archived", body: `{}`},
		{name: "broken body", routingKey: "recepcion.citas.updated", body: `{"cita_id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received []domain.AgendaChange
			listener := newTestListener(t, &received)

			assert.Error(t, listener.processMessage(tt.routingKey, []byte(tt.body)))
			assert.Empty(t, received)
		})
	}
}
