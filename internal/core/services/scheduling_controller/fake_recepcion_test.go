package scheduling_controller

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/autotaller/recepcion-agenda/internal/adapters/out/logger"
	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
	"github.com/stretchr/testify/require"
)

// memoryRecepcion бэкенд в памяти: сводки считаются по статусам записей
type memoryRecepcion struct {
	mu           sync.Mutex
	orders       []domain.Order
	appointments []domain.Appointment
	nextID       int64

	writeErr error
	// listErrAfterWrite ломает чтение после успешной записи
	listErrAfterWrite error
	written           bool
	// rangeErrs ломает чтение только указанного диапазона
	rangeErrs map[domain.DateRange]error

	creates []domain.AppointmentPayload
	updates map[int64]domain.AppointmentPayload
	deletes []int64
}

func newMemoryRecepcion(orders ...domain.Order) *memoryRecepcion {
	return &memoryRecepcion{
		orders:    orders,
		nextID:    1,
		updates:   map[int64]domain.AppointmentPayload{},
		rangeErrs: map[domain.DateRange]error{},
	}
}

func (m *memoryRecepcion) ListOrders(ctx context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Order(nil), m.orders...), nil
}

func (m *memoryRecepcion) ListAppointments(ctx context.Context, r domain.DateRange) ([]domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.written && m.listErrAfterWrite != nil {
		return nil, m.listErrAfterWrite
	}
	if err := m.rangeErrs[r]; err != nil {
		return nil, err
	}
	var list []domain.Appointment
	for _, a := range m.appointments {
		if r.Contains(a.Date) {
			list = append(list, a)
		}
	}
	return list, nil
}

func (m *memoryRecepcion) ListDaySummaries(ctx context.Context, r domain.DateRange) ([]domain.DaySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKey := map[string]domain.DaySummary{}
	for _, a := range m.appointments {
		if !r.Contains(a.Date) {
			continue
		}
		s := byKey[a.Date.Key()]
		s.Date = a.Date
		s.Total++
		switch a.Status {
		case domain.AppointmentStatusCompletada:
			s.Completed++
		case domain.AppointmentStatusCancelada:
			s.Cancelled++
		case domain.AppointmentStatusNoShow:
		default:
			s.Pending++
		}
		byKey[a.Date.Key()] = s
	}
	result := make([]domain.DaySummary, 0, len(byKey))
	for _, s := range byKey {
		result = append(result, s)
	}
	return result, nil
}

func (m *memoryRecepcion) CreateAppointment(ctx context.Context, payload domain.AppointmentPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates = append(m.creates, payload)
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = true
	m.appointments = append(m.appointments, domain.Appointment{
		ID:      m.nextID,
		OrderID: payload.OrderID,
		Date:    payload.Date,
		Time:    payload.Time,
		Status:  payload.Status,
		Notes:   payload.Notes,
	})
	m.nextID++
	return nil
}

func (m *memoryRecepcion) UpdateAppointment(ctx context.Context, id int64, payload domain.AppointmentPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates[id] = payload
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = true
	for i := range m.appointments {
		if m.appointments[i].ID == id {
			m.appointments[i].Date = payload.Date
			m.appointments[i].Time = payload.Time
			m.appointments[i].Status = payload.Status
			m.appointments[i].Notes = payload.Notes
		}
	}
	return nil
}

func (m *memoryRecepcion) DeleteAppointment(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, id)
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = true
	for i := range m.appointments {
		if m.appointments[i].ID == id {
			m.appointments = append(m.appointments[:i], m.appointments[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memoryRecepcion) add(a domain.Appointment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == 0 {
		a.ID = m.nextID
		m.nextID++
	}
	m.appointments = append(m.appointments, a)
}

func testLogger(t *testing.T) out.LoggerPort {
	t.Helper()
	l, err := logger.NewConsoleLogger("UTC", "ERROR", io.Discard)
	require.NoError(t, err)
	return l
}
