package tui

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/autotaller/recepcion-agenda/internal/adapters/out/logger"
	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
	"github.com/autotaller/recepcion-agenda/internal/core/services"
	"github.com/autotaller/recepcion-agenda/internal/core/services/scheduling_controller"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecepcion struct {
	mu           sync.Mutex
	orders       []domain.Order
	appointments []domain.Appointment
	creates      []domain.AppointmentPayload
	deletes      []int64
}

func (s *stubRecepcion) ListOrders(ctx context.Context) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order(nil), s.orders...), nil
}

func (s *stubRecepcion) ListAppointments(ctx context.Context, r domain.DateRange) ([]domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []domain.Appointment
	for _, a := range s.appointments {
		if r.Contains(a.Date) {
			list = append(list, a)
		}
	}
	return list, nil
}

func (s *stubRecepcion) ListDaySummaries(ctx context.Context, r domain.DateRange) ([]domain.DaySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byKey := map[string]domain.DaySummary{}
	for _, a := range s.appointments {
		if r.Contains(a.Date) {
			summary := byKey[a.Date.Key()]
			summary.Date = a.Date
			summary.Total++
			summary.Pending++
			byKey[a.Date.Key()] = summary
		}
	}
	result := make([]domain.DaySummary, 0, len(byKey))
	for _, summary := range byKey {
		result = append(result, summary)
	}
	return result, nil
}

func (s *stubRecepcion) CreateAppointment(ctx context.Context, payload domain.AppointmentPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, payload)
	s.appointments = append(s.appointments, domain.Appointment{
		ID:         int64(len(s.appointments) + 1),
		OrderID:    payload.OrderID,
		Date:       payload.Date,
		Time:       payload.Time,
		Status:     payload.Status,
		ClientName: "Ana Ruiz",
	})
	return nil
}

func (s *stubRecepcion) UpdateAppointment(ctx context.Context, id int64, payload domain.AppointmentPayload) error {
	return nil
}

func (s *stubRecepcion) DeleteAppointment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			s.appointments = append(s.appointments[:i], s.appointments[i+1:]...)
			break
		}
	}
	return nil
}

var today = json_types.NewDate(2024, time.June, 10)

func newTestApp(t *testing.T, backend *stubRecepcion, pendingOrderID string) *AgendaApp {
	t.Helper()
	l, err := logger.NewConsoleLogger("UTC", "ERROR", io.Discard)
	require.NoError(t, err)

	store := services.NewAgendaStoreService(backend, nil, l)
	controller := scheduling_controller.NewSchedulingController(store, l, scheduling_controller.Options{
		Timeout:     time.Second,
		DefaultTime: "09:00",
	})
	app := NewAgendaApp(controller, controller.InitialState(today, pendingOrderID, json_types.Date{}))
	run(app, app.Init())
	return app
}

// run выполняет команду и все порожденные ею сообщения синхронно
func run(app *AgendaApp, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			run(app, c)
		}
		return
	}
	if msg == nil {
		return
	}
	_, next := app.Update(msg)
	run(app, next)
}

func press(app *AgendaApp, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := app.Update(msg)
		run(app, cmd)
	}
}

func TestRenderMonth(t *testing.T) {
	app := newTestApp(t, &stubRecepcion{}, "")

	view := app.View()

	assert.Contains(t, view, "Junio 2024")
	assert.Contains(t, view, "Sin citas")
	assert.Contains(t, view, "Resumen")
}

func TestCreateAppointmentFromKeyboard(t *testing.T) {
	backend := &stubRecepcion{orders: []domain.Order{{ID: 5, ClientName: "Ana Ruiz", ClaimCode: "S-1", Plates: "ABC-123"}}}
	app := newTestApp(t, backend, "")

	press(app, "n")
	require.True(t, app.State().Modal.Open())
	assert.Contains(t, app.View(), "Nueva cita")

	press(app, "right", "enter")

	assert.False(t, app.State().Modal.Open())
	require.Len(t, backend.creates, 1)
	assert.Equal(t, int64(5), backend.creates[0].OrderID)
	assert.Equal(t, "2024-06-10", backend.creates[0].Date.Key())
	assert.Equal(t, "09:00", backend.creates[0].Time.String())
	assert.Contains(t, app.View(), "Ana Ruiz")
}

func TestSubmitWithoutOrderShowsInlineError(t *testing.T) {
	backend := &stubRecepcion{orders: []domain.Order{{ID: 5}}}
	app := newTestApp(t, backend, "")

	press(app, "n", "enter")

	assert.True(t, app.State().Modal.Open())
	assert.Equal(t, scheduling_controller.MsgOrderRequired, app.State().Modal.Error)
	assert.Empty(t, backend.creates)
}

func TestPendingOrderPreselectsOrder(t *testing.T) {
	backend := &stubRecepcion{orders: []domain.Order{{ID: 4}, {ID: 5, ClientName: "Luis"}}}
	app := newTestApp(t, backend, "5")

	require.True(t, app.State().Modal.Open())
	assert.Equal(t, 1, app.form.orderIdx)
	assert.Equal(t, "5", app.formValues().OrderID)
}

func TestNavigateAndSelectAcrossMonth(t *testing.T) {
	app := newTestApp(t, &stubRecepcion{}, "")

	press(app, "]")
	assert.Equal(t, time.July, app.State().Cursor.Month)
	assert.Contains(t, app.View(), "Julio 2024")

	press(app, "t")
	assert.Equal(t, today, app.State().SelectedDate)

	// С 30 июня шаг вправо уводит в июль
	app.state.SelectedDate = json_types.NewDate(2024, time.June, 30)
	press(app, "l")
	assert.Equal(t, json_types.NewDate(2024, time.July, 1), app.State().SelectedDate)
	assert.Equal(t, time.July, app.State().Cursor.Month)
}

func TestDeleteWithConfirmation(t *testing.T) {
	backend := &stubRecepcion{appointments: []domain.Appointment{{
		ID:         1,
		Date:       today,
		Time:       json_types.NewTime(9, 0),
		Status:     domain.AppointmentStatusProgramada,
		ClientName: "Ana Ruiz",
	}}}
	app := newTestApp(t, backend, "")

	press(app, "d")
	assert.Contains(t, app.View(), "¿Eliminar la cita #1?")
	press(app, "n")
	assert.Empty(t, backend.deletes)

	press(app, "d", "s")
	assert.Equal(t, []int64{1}, backend.deletes)
	assert.False(t, strings.Contains(app.View(), "Ana Ruiz"))
}

func TestWeekViewRendersColumns(t *testing.T) {
	app := newTestApp(t, &stubRecepcion{}, "")

	press(app, "v")

	assert.Equal(t, scheduling_controller.ViewWeek, app.State().View)
	view := app.View()
	assert.Contains(t, view, "LUN 10")
	assert.Contains(t, view, "SÁB 15")
}
