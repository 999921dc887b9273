package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) json_types.Date {
	return json_types.NewDate(y, m, d)
}

func appointmentAt(id int64, d json_types.Date, hhmm string) domain.Appointment {
	tm, err := json_types.ParseTime(hhmm)
	if err != nil {
		panic(err)
	}
	return domain.Appointment{ID: id, OrderID: 1, Date: d, Time: tm, Status: domain.AppointmentStatusProgramada}
}

func TestLoadMonthReplacesSnapshot(t *testing.T) {
	backend := newFakeRecepcion()
	backend.appointments = []domain.Appointment{
		appointmentAt(1, date(2024, time.June, 10), "11:00"),
		appointmentAt(2, date(2024, time.June, 10), "09:30"),
		appointmentAt(3, date(2024, time.July, 2), "10:00"),
	}
	store := NewAgendaStoreService(backend, nil, testLogger(t))

	snapshot, err := store.LoadMonth(context.Background(), date(2024, time.June, 15))
	require.NoError(t, err)
	assert.Equal(t, domain.MonthRange(date(2024, time.June, 1)), snapshot.Range)
	assert.Len(t, snapshot.Appointments, 2)
	assert.Equal(t, 2, snapshot.Summaries["2024-06-10"].Total)

	snapshot, err = store.LoadMonth(context.Background(), date(2024, time.July, 1))
	require.NoError(t, err)
	require.Len(t, snapshot.Appointments, 1)
	assert.Equal(t, int64(3), snapshot.Appointments[0].ID)
	_, hasJune := store.DaySummary(date(2024, time.June, 10))
	assert.False(t, hasJune, "month switch must replace summaries wholesale")
}

func TestLoadMonthKeepsOnlyInRangeAppointments(t *testing.T) {
	backend := &outOfRangeBackend{fakeRecepcion: newFakeRecepcion()}
	store := NewAgendaStoreService(backend, nil, testLogger(t))

	snapshot, err := store.LoadMonth(context.Background(), date(2024, time.June, 1))
	require.NoError(t, err)

	r := domain.MonthRange(date(2024, time.June, 1))
	for _, a := range snapshot.Appointments {
		assert.True(t, r.Contains(a.Date), a.Date.Key())
	}
	assert.Len(t, snapshot.Appointments, 1)
}

// outOfRangeBackend возвращает лишнюю запись вне диапазона
type outOfRangeBackend struct {
	*fakeRecepcion
}

func (b *outOfRangeBackend) ListAppointments(ctx context.Context, r domain.DateRange) ([]domain.Appointment, error) {
	return []domain.Appointment{
		appointmentAt(1, date(2024, time.June, 3), "09:00"),
		appointmentAt(2, date(2024, time.July, 1), "09:00"),
	}, nil
}

func TestLoadMonthFailureKeepsPreviousSnapshot(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fakeRecepcion)
	}{
		{"appointments read fails", func(f *fakeRecepcion) {
			f.appointmentsErr = &domain.RequestError{Op: "citas", StatusCode: 500, Message: domain.MsgLoadAppointments}
		}},
		{"summaries read fails", func(f *fakeRecepcion) {
			f.summariesErr = &domain.RequestError{Op: "resumen", StatusCode: 503, Message: domain.MsgLoadSummaries}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeRecepcion()
			backend.appointments = []domain.Appointment{appointmentAt(1, date(2024, time.June, 10), "09:00")}
			store := NewAgendaStoreService(backend, nil, testLogger(t))

			_, err := store.LoadMonth(context.Background(), date(2024, time.June, 1))
			require.NoError(t, err)
			before := store.Snapshot()

			tt.setup(backend)
			_, err = store.LoadMonth(context.Background(), date(2024, time.June, 1))

			var fetchErr *domain.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, before, store.Snapshot())
		})
	}
}

func TestLoadRangeDiscardsStaleResponse(t *testing.T) {
	backend := newFakeRecepcion()
	backend.appointments = []domain.Appointment{
		appointmentAt(1, date(2024, time.July, 5), "09:00"),
		appointmentAt(2, date(2024, time.August, 6), "10:00"),
	}
	store := NewAgendaStoreService(backend, nil, testLogger(t))
	july := domain.MonthRange(date(2024, time.July, 1))
	august := domain.MonthRange(date(2024, time.August, 1))
	julyGate := backend.gate(july)

	julyDone := make(chan error, 1)
	go func() {
		_, err := store.LoadRange(context.Background(), july)
		julyDone <- err
	}()
	require.Eventually(t, func() bool { return backend.listCallCount() == 1 }, time.Second, time.Millisecond)

	_, err := store.LoadRange(context.Background(), august)
	require.NoError(t, err)

	// Ответ за июль приходит последним
	close(julyGate)
	assert.ErrorIs(t, <-julyDone, domain.ErrStaleLoad)

	snapshot := store.Snapshot()
	assert.Equal(t, august, snapshot.Range)
	require.Len(t, snapshot.Appointments, 1)
	assert.Equal(t, int64(2), snapshot.Appointments[0].ID)
}

func TestLoadRangeSameRangeOlderGenerationDiscarded(t *testing.T) {
	backend := newFakeRecepcion()
	june := domain.MonthRange(date(2024, time.June, 1))
	store := NewAgendaStoreService(backend, nil, testLogger(t))
	gate := backend.gate(june)

	slowDone := make(chan error, 1)
	go func() {
		_, err := store.LoadRange(context.Background(), june)
		slowDone <- err
	}()
	require.Eventually(t, func() bool { return backend.listCallCount() == 1 }, time.Second, time.Millisecond)

	backend.mu.Lock()
	delete(backend.gates, june)
	backend.appointments = []domain.Appointment{appointmentAt(9, date(2024, time.June, 4), "08:00")}
	backend.mu.Unlock()

	_, err := store.LoadRange(context.Background(), june)
	require.NoError(t, err)

	close(gate)
	<-slowDone
	assert.Len(t, store.Snapshot().Appointments, 1, "older response for the same range must not overwrite newer data")
}

func TestLoadRangeOlderFailureAfterNewerCommitIsStale(t *testing.T) {
	backend := newFakeRecepcion()
	june := domain.MonthRange(date(2024, time.June, 1))
	store := NewAgendaStoreService(backend, nil, testLogger(t))
	gate := backend.gate(june)

	slowDone := make(chan error, 1)
	go func() {
		_, err := store.LoadRange(context.Background(), june)
		slowDone <- err
	}()
	require.Eventually(t, func() bool { return backend.listCallCount() == 1 }, time.Second, time.Millisecond)

	backend.mu.Lock()
	delete(backend.gates, june)
	backend.appointments = []domain.Appointment{appointmentAt(9, date(2024, time.June, 4), "08:00")}
	backend.mu.Unlock()

	_, err := store.LoadRange(context.Background(), june)
	require.NoError(t, err)

	// Первая загрузка того же месяца падает уже после записи второй
	backend.mu.Lock()
	backend.rangeErrs[june] = errors.New("timeout")
	backend.mu.Unlock()
	close(gate)

	assert.ErrorIs(t, <-slowDone, domain.ErrStaleLoad)
	assert.Len(t, store.Snapshot().Appointments, 1)
}

func TestWriteRefetchesGivenRangeNotLastTarget(t *testing.T) {
	backend := newFakeRecepcion()
	store := NewAgendaStoreService(backend, nil, testLogger(t))
	july := domain.MonthRange(date(2024, time.July, 1))
	august := domain.MonthRange(date(2024, time.August, 1))

	_, err := store.LoadRange(context.Background(), august)
	require.NoError(t, err)

	// Поздняя загрузка июля перехватила цель и упала
	backend.mu.Lock()
	backend.rangeErrs[july] = errors.New("timeout")
	backend.mu.Unlock()
	_, err = store.LoadRange(context.Background(), july)
	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, july, store.ActiveRange())

	err = store.Create(context.Background(), august, domain.AppointmentPayload{
		OrderID: 3,
		Date:    date(2024, time.August, 12),
		Time:    json_types.NewTime(11, 0),
		Status:  domain.AppointmentStatusProgramada,
	})
	require.NoError(t, err)

	assert.Equal(t, august, backend.listCalls[len(backend.listCalls)-1])
	assert.Equal(t, august, store.ActiveRange())
	assert.Len(t, store.DayAppointments(date(2024, time.August, 12)), 1)
}

func TestCreateRefetchesActiveMonth(t *testing.T) {
	backend := newFakeRecepcion()
	store := NewAgendaStoreService(backend, nil, testLogger(t))

	_, err := store.LoadMonth(context.Background(), date(2024, time.June, 1))
	require.NoError(t, err)
	callsBefore := backend.listCallCount()

	err = store.Create(context.Background(), domain.DateRange{}, domain.AppointmentPayload{
		OrderID: 7,
		Date:    date(2024, time.June, 10),
		Time:    json_types.NewTime(9, 0),
		Status:  domain.AppointmentStatusProgramada,
	})
	require.NoError(t, err)

	assert.Equal(t, callsBefore+1, backend.listCallCount())
	assert.Equal(t, domain.MonthRange(date(2024, time.June, 1)), backend.listCalls[len(backend.listCalls)-1])

	day := store.DayAppointments(date(2024, time.June, 10))
	require.Len(t, day, 1)
	assert.Equal(t, int64(7), day[0].OrderID)
	summary, ok := store.DaySummary(date(2024, time.June, 10))
	require.True(t, ok)
	assert.Equal(t, 1, summary.Total)
}

func TestWriteFailureLeavesCacheUntouched(t *testing.T) {
	backend := newFakeRecepcion()
	backend.appointments = []domain.Appointment{appointmentAt(1, date(2024, time.June, 10), "09:00")}
	store := NewAgendaStoreService(backend, nil, testLogger(t))
	_, err := store.LoadMonth(context.Background(), date(2024, time.June, 1))
	require.NoError(t, err)
	before := store.Snapshot()
	callsBefore := backend.listCallCount()

	backend.writeErr = &domain.RequestError{Op: "create", StatusCode: 422, Message: "La orden ya tiene cita"}
	err = store.Create(context.Background(), domain.DateRange{}, domain.AppointmentPayload{OrderID: 1, Date: date(2024, time.June, 11)})

	var requestErr *domain.RequestError
	require.ErrorAs(t, err, &requestErr)
	assert.True(t, requestErr.Rejected())
	assert.Equal(t, before, store.Snapshot())
	assert.Equal(t, callsBefore, backend.listCallCount())

	err = store.Remove(context.Background(), domain.DateRange{}, 1)
	assert.ErrorAs(t, err, &requestErr)
	assert.Equal(t, before, store.Snapshot())
}

func TestRemoveRefetchAndRefreshFailure(t *testing.T) {
	backend := newFakeRecepcion()
	backend.appointments = []domain.Appointment{appointmentAt(1, date(2024, time.June, 10), "09:00")}
	store := NewAgendaStoreService(backend, nil, testLogger(t))
	_, err := store.LoadMonth(context.Background(), date(2024, time.June, 1))
	require.NoError(t, err)

	backend.summariesErr = errors.New("resumen caído")
	err = store.Remove(context.Background(), domain.DateRange{}, 1)

	var refreshErr *domain.RefreshError
	require.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, domain.MsgDeleteRefreshFailed, domain.UserMessage(err, ""))
	assert.Equal(t, []int64{1}, backend.deleteCalls)
}

func TestDayAppointmentsSortedAndFiltered(t *testing.T) {
	backend := newFakeRecepcion()
	backend.appointments = []domain.Appointment{
		appointmentAt(1, date(2024, time.June, 10), "16:00"),
		appointmentAt(2, date(2024, time.June, 11), "08:00"),
		appointmentAt(3, date(2024, time.June, 10), "08:30"),
		appointmentAt(4, date(2024, time.June, 10), "12:15"),
	}
	store := NewAgendaStoreService(backend, nil, testLogger(t))
	_, err := store.LoadMonth(context.Background(), date(2024, time.June, 1))
	require.NoError(t, err)

	day := store.DayAppointments(date(2024, time.June, 10))
	require.Len(t, day, 3)
	assert.Equal(t, []int64{3, 4, 1}, []int64{day[0].ID, day[1].ID, day[2].ID})
	for i := 1; i < len(day); i++ {
		assert.LessOrEqual(t, day[i-1].Time.String(), day[i].Time.String())
	}

	assert.Empty(t, store.DayAppointments(date(2024, time.July, 10)))
}

func TestListOrdersCached(t *testing.T) {
	backend := newFakeRecepcion()
	backend.orders = []domain.Order{{ID: 42, ClaimCode: "QX-42", ClientName: "Ana", Plates: "XYZ-1"}}
	store := NewAgendaStoreService(backend, nil, testLogger(t))

	orders, err := store.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, orders, store.Orders())
}

func TestSnapshotIsACopy(t *testing.T) {
	backend := newFakeRecepcion()
	backend.appointments = []domain.Appointment{appointmentAt(1, date(2024, time.June, 10), "09:00")}
	store := NewAgendaStoreService(backend, nil, testLogger(t))
	_, err := store.LoadMonth(context.Background(), date(2024, time.June, 1))
	require.NoError(t, err)

	snapshot := store.Snapshot()
	snapshot.Appointments[0].ID = 999
	delete(snapshot.Summaries, "2024-06-10")

	_, ok := store.FindAppointment(1)
	assert.True(t, ok)
	_, ok = store.DaySummary(date(2024, time.June, 10))
	assert.True(t, ok)
}
