package services

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

// fakeRecepcion бэкенд в памяти; сводки считаются как total на день
type fakeRecepcion struct {
	mu           sync.Mutex
	appointments []domain.Appointment
	orders       []domain.Order
	nextID       int64

	appointmentsErr error
	summariesErr    error
	writeErr        error

	// gates блокирует ListAppointments для диапазона до закрытия канала
	gates map[domain.DateRange]chan struct{}
	// rangeErrs проверяется уже после открытия gate
	rangeErrs map[domain.DateRange]error

	listCalls   []domain.DateRange
	createCalls []domain.AppointmentPayload
	deleteCalls []int64
}

func newFakeRecepcion() *fakeRecepcion {
	return &fakeRecepcion{
		nextID:    100,
		gates:     map[domain.DateRange]chan struct{}{},
		rangeErrs: map[domain.DateRange]error{},
	}
}

func (f *fakeRecepcion) ListOrders(ctx context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Order(nil), f.orders...), nil
}

func (f *fakeRecepcion) ListAppointments(ctx context.Context, r domain.DateRange) ([]domain.Appointment, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, r)
	gate := f.gates[r]
	err := f.appointmentsErr
	var list []domain.Appointment
	for _, a := range f.appointments {
		if r.Contains(a.Date) {
			list = append(list, a)
		}
	}
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	rangeErr := f.rangeErrs[r]
	f.mu.Unlock()
	if rangeErr != nil {
		return nil, rangeErr
	}
	return list, nil
}

func (f *fakeRecepcion) ListDaySummaries(ctx context.Context, r domain.DateRange) ([]domain.DaySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.summariesErr != nil {
		return nil, f.summariesErr
	}
	byKey := map[string]*domain.DaySummary{}
	var order []string
	for _, a := range f.appointments {
		if !r.Contains(a.Date) {
			continue
		}
		s, ok := byKey[a.Date.Key()]
		if !ok {
			s = &domain.DaySummary{Date: a.Date}
			byKey[a.Date.Key()] = s
			order = append(order, a.Date.Key())
		}
		s.Total++
	}
	result := make([]domain.DaySummary, 0, len(order))
	for _, k := range order {
		result = append(result, *byKey[k])
	}
	return result, nil
}

func (f *fakeRecepcion) CreateAppointment(ctx context.Context, payload domain.AppointmentPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, payload)
	if f.writeErr != nil {
		return f.writeErr
	}
	f.nextID++
	f.appointments = append(f.appointments, domain.Appointment{
		ID:      f.nextID,
		OrderID: payload.OrderID,
		Date:    payload.Date,
		Time:    payload.Time,
		Status:  payload.Status,
		Notes:   payload.Notes,
	})
	return nil
}

func (f *fakeRecepcion) UpdateAppointment(ctx context.Context, id int64, payload domain.AppointmentPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	for i := range f.appointments {
		if f.appointments[i].ID == id {
			f.appointments[i].OrderID = payload.OrderID
			f.appointments[i].Date = payload.Date
			f.appointments[i].Time = payload.Time
			f.appointments[i].Status = payload.Status
			f.appointments[i].Notes = payload.Notes
			return nil
		}
	}
	return &domain.RequestError{Op: "update", StatusCode: 404, Message: "Cita no encontrada"}
}

func (f *fakeRecepcion) DeleteAppointment(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	if f.writeErr != nil {
		return f.writeErr
	}
	for i := range f.appointments {
		if f.appointments[i].ID == id {
			f.appointments = append(f.appointments[:i], f.appointments[i+1:]...)
			return nil
		}
	}
	return &domain.RequestError{Op: "delete", StatusCode: 404, Message: "Cita no encontrada"}
}

func (f *fakeRecepcion) gate(r domain.DateRange) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[r] = ch
	return ch
}

func (f *fakeRecepcion) listCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func testLogger(t *testing.T) out.LoggerPort {
	t.Helper()
	l, err := logger.NewConsoleLogger("UTC", "ERROR", io.Discard)
	require.NoError(t, err)
	return l
}
