package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
	"golang.org/x/sync/errgroup"
)

// AgendaStoreService клиентский кэш записей и дневных сводок за активный
// диапазон. Кэш меняется только целиком и только здесь.
type AgendaStoreService struct {
	recepcionPort out.RecepcionPort
	cachePort     out.AgendaCachePort
	logger        out.LoggerPort
	now           func() time.Time

	mu       sync.RWMutex
	snapshot domain.AgendaSnapshot
	orders   []domain.Order

	// Защита от устаревших ответов: каждая загрузка получает номер поколения,
	// записывается только ответ для текущей цели и новее последнего записанного
	target              domain.DateRange
	generation          uint64
	committedGeneration uint64
}

func NewAgendaStoreService(
	recepcionPort out.RecepcionPort,
	cachePort out.AgendaCachePort,
	logger out.LoggerPort,
) *AgendaStoreService {
	return &AgendaStoreService{
		recepcionPort: recepcionPort,
		cachePort:     cachePort,
		logger:        logger.WithModule("AgendaStoreService"),
		now:           time.Now,
	}
}

func (s *AgendaStoreService) LoadMonth(ctx context.Context, monthCursor json_types.Date) (domain.AgendaSnapshot, error) {
	return s.LoadRange(ctx, domain.MonthRange(monthCursor))
}

func (s *AgendaStoreService) LoadRange(ctx context.Context, r domain.DateRange) (domain.AgendaSnapshot, error) {
	s.mu.Lock()
	s.target = r
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	from, to := r.Keys()
	s.logger.Info("agenda.range.load", out.LogFields{
		"from":       from,
		"to":         to,
		"generation": generation,
	})

	timing := domain.StartTiming("agenda.range.load")
	timing.AddOption("range", r.String())

	var appointments []domain.Appointment
	var summaries []domain.DaySummary

	// Два чтения идут параллельно, результат собирается только после обоих
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.recepcionPort.ListAppointments(gctx, r)
		if err != nil {
			return err
		}
		appointments = list
		return nil
	})
	g.Go(func() error {
		list, err := s.recepcionPort.ListDaySummaries(gctx, r)
		if err != nil {
			return err
		}
		summaries = list
		return nil
	})

	if err := g.Wait(); err != nil {
		// Цель сменилась или тот же диапазон уже записан более новой загрузкой
		s.mu.RLock()
		superseded := s.target != r || generation <= s.committedGeneration
		s.mu.RUnlock()

		if superseded {
			s.logger.Debug("agenda.range.load_failed_stale", out.LogFields{
				"range": r.String(),
				"error": err.Error(),
			})
			return domain.AgendaSnapshot{}, domain.ErrStaleLoad
		}

		s.logger.Error("agenda.range.load_failed", out.LogFields{
			"range":  r.String(),
			"error":  err.Error(),
			"timing": timing.Elapse(),
		})
		return domain.AgendaSnapshot{}, &domain.FetchError{Range: r, Err: err}
	}

	snapshot := s.buildSnapshot(r, appointments, summaries)

	s.mu.Lock()
	if s.target != r || generation <= s.committedGeneration {
		s.mu.Unlock()
		s.logger.Debug("agenda.range.load_discarded", out.LogFields{
			"range":      r.String(),
			"generation": generation,
		})
		return domain.AgendaSnapshot{}, domain.ErrStaleLoad
	}
	s.snapshot = snapshot
	s.committedGeneration = generation
	s.mu.Unlock()

	if s.cachePort != nil {
		s.cachePort.StoreRange(ctx, snapshot.Clone())
	}

	s.logger.Debug("agenda.range.load_success", out.LogFields{
		"range":        r.String(),
		"appointments": len(snapshot.Appointments),
		"summaries":    len(snapshot.Summaries),
		"timing":       timing.Elapse(),
	})

	return snapshot.Clone(), nil
}

func (s *AgendaStoreService) buildSnapshot(r domain.DateRange, appointments []domain.Appointment, summaries []domain.DaySummary) domain.AgendaSnapshot {
	inRange := make([]domain.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		// В кэш попадают только записи загруженного диапазона
		if !r.Contains(appointment.Date) {
			s.logger.Warn("agenda.range.appointment_out_of_range", out.LogFields{
				"range":         r.String(),
				"appointmentId": appointment.ID,
				"date":          appointment.Date.Key(),
			})
			continue
		}
		inRange = append(inRange, appointment)
	}
	sortAppointments(inRange)

	byDate := make(map[string]domain.DaySummary, len(summaries))
	for _, summary := range summaries {
		byDate[summary.Date.Key()] = summary
	}

	return domain.AgendaSnapshot{
		Range:        r,
		Appointments: inRange,
		Summaries:    byDate,
		LoadedAt:     s.now(),
	}
}

// sortAppointments по дате, затем по HH:MM
func sortAppointments(appointments []domain.Appointment) {
	sort.SliceStable(appointments, func(i, j int) bool {
		if c := appointments[i].Date.Compare(appointments[j].Date); c != 0 {
			return c < 0
		}
		return appointments[i].Time.String() < appointments[j].Time.String()
	})
}

func (s *AgendaStoreService) ActiveRange() domain.DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target
}

func (s *AgendaStoreService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.recepcionPort.ListOrders(ctx)
	if err != nil {
		s.logger.Error("agenda.orders.load_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	s.mu.Lock()
	s.orders = append([]domain.Order(nil), orders...)
	s.mu.Unlock()

	s.logger.Info("agenda.orders.loaded", out.LogFields{
		"count": len(orders),
	})

	return append([]domain.Order(nil), orders...), nil
}

func (s *AgendaStoreService) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Order(nil), s.orders...)
}

func (s *AgendaStoreService) Create(ctx context.Context, active domain.DateRange, payload domain.AppointmentPayload) error {
	if err := s.recepcionPort.CreateAppointment(ctx, payload); err != nil {
		s.logger.Error("agenda.appointment.create_failed", out.LogFields{
			"orderId": payload.OrderID,
			"error":   err.Error(),
		})
		return err
	}

	s.logger.Info("agenda.appointment.created", out.LogFields{
		"orderId": payload.OrderID,
		"date":    payload.Date.Key(),
		"time":    payload.Time.String(),
	})

	return s.refreshAfterWrite(ctx, active, domain.MsgSavedRefreshFailed)
}

func (s *AgendaStoreService) Update(ctx context.Context, active domain.DateRange, id int64, payload domain.AppointmentPayload) error {
	if err := s.recepcionPort.UpdateAppointment(ctx, id, payload); err != nil {
		s.logger.Error("agenda.appointment.update_failed", out.LogFields{
			"appointmentId": id,
			"error":         err.Error(),
		})
		return err
	}

	s.logger.Info("agenda.appointment.updated", out.LogFields{
		"appointmentId": id,
		"date":          payload.Date.Key(),
		"time":          payload.Time.String(),
	})

	return s.refreshAfterWrite(ctx, active, domain.MsgSavedRefreshFailed)
}

func (s *AgendaStoreService) Remove(ctx context.Context, active domain.DateRange, id int64) error {
	if err := s.recepcionPort.DeleteAppointment(ctx, id); err != nil {
		s.logger.Error("agenda.appointment.delete_failed", out.LogFields{
			"appointmentId": id,
			"error":         err.Error(),
		})
		return err
	}

	s.logger.Info("agenda.appointment.deleted", out.LogFields{
		"appointmentId": id,
	})

	return s.refreshAfterWrite(ctx, active, domain.MsgDeleteRefreshFailed)
}

// refreshAfterWrite перечитывает диапазон, который сейчас видит пользователь:
// сводки считает сервер, локально они не правятся. Без явного диапазона
// берется цель последней загрузки.
func (s *AgendaStoreService) refreshAfterWrite(ctx context.Context, active domain.DateRange, message string) error {
	if s.cachePort != nil {
		s.cachePort.InvalidateAll(ctx)
	}

	r := active
	if r.IsZero() {
		r = s.ActiveRange()
	}
	if r.IsZero() {
		return nil
	}

	if _, err := s.LoadRange(ctx, r); err != nil {
		// Более новая загрузка уже в пути, она и обновит кэш
		if errors.Is(err, domain.ErrStaleLoad) {
			return nil
		}
		return &domain.RefreshError{Message: message, Err: err}
	}

	return nil
}

func (s *AgendaStoreService) Snapshot() domain.AgendaSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// SnapshotFor снимок для диапазона: актуальный, если он загружен,
// иначе последний из истории с пометкой Stale
func (s *AgendaStoreService) SnapshotFor(r domain.DateRange) (domain.AgendaSnapshot, bool) {
	s.mu.RLock()
	if s.committedGeneration > 0 && s.snapshot.Range == r {
		defer s.mu.RUnlock()
		return s.snapshot.Clone(), true
	}
	s.mu.RUnlock()

	if s.cachePort == nil {
		return domain.AgendaSnapshot{}, false
	}

	snapshot, ok := s.cachePort.GetRange(context.Background(), r)
	if !ok {
		return domain.AgendaSnapshot{}, false
	}
	snapshot.Stale = true
	return snapshot, true
}

func (s *AgendaStoreService) DayAppointments(date json_types.Date) []domain.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterDay(s.snapshot.Appointments, date)
}

// FilterDay записи одного дня, отсортированные по HH:MM
func FilterDay(appointments []domain.Appointment, date json_types.Date) []domain.Appointment {
	day := make([]domain.Appointment, 0)
	for _, appointment := range appointments {
		if appointment.Date == date {
			day = append(day, appointment)
		}
	}
	sort.SliceStable(day, func(i, j int) bool {
		return day[i].Time.String() < day[j].Time.String()
	})
	return day
}

func (s *AgendaStoreService) DaySummary(date json_types.Date) (domain.DaySummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.snapshot.Summaries[date.Key()]
	return summary, ok
}

func (s *AgendaStoreService) FindAppointment(id int64) (domain.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, appointment := range s.snapshot.Appointments {
		if appointment.ID == id {
			return appointment, true
		}
	}
	return domain.Appointment{}, false
}
