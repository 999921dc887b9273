package services

import (
	"context"
	"sort"
	"sync"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
)

// SandboxVehicle данные автомобиля заказа, которые бэкенд подставляет в записи
type SandboxVehicle struct {
	Brand     string
	Type      string
	ModelYear int
}

type SandboxOrder struct {
	domain.Order
	Vehicle SandboxVehicle
}

// Статусы, которые сводка считает ожидающими
var pendingStatuses = map[domain.AppointmentStatus]bool{
	domain.AppointmentStatusProgramada:   true,
	domain.AppointmentStatusConfirmada:   true,
	domain.AppointmentStatusReprogramada: true,
	domain.AppointmentStatusEnEspera:     true,
	domain.AppointmentStatusDemorada:     true,
}

const (
	MsgSandboxOrderNotFound       = "Orden de admisión no encontrada"
	MsgSandboxAppointmentNotFound = "Cita no encontrada"
	MsgSandboxInvalidStatus       = "Estado de cita no válido"
	MsgSandboxInvalidDate         = "Fecha de cita requerida"
	MsgSandboxInvalidTime         = "Hora de cita requerida"
)

// RecepcionSandboxService бэкенд приема в памяти. Сводки по дням считаются
// здесь, клиент их только показывает.
type RecepcionSandboxService struct {
	eventsPort out.AgendaEventsPort
	logger     out.LoggerPort

	mu           sync.RWMutex
	orders       []SandboxOrder
	appointments map[int64]domain.Appointment
	nextID       int64
}

func NewRecepcionSandboxService(orders []SandboxOrder, eventsPort out.AgendaEventsPort, logger out.LoggerPort) *RecepcionSandboxService {
	return &RecepcionSandboxService{
		eventsPort:   eventsPort,
		logger:       logger.WithModule("RecepcionSandboxService"),
		orders:       append([]SandboxOrder(nil), orders...),
		appointments: make(map[int64]domain.Appointment),
		nextID:       1,
	}
}

// DefaultSandboxOrders заказы, с которыми поднимается песочница
func DefaultSandboxOrders() []SandboxOrder {
	return []SandboxOrder{
		{Order: domain.Order{ID: 101, ClaimCode: "SIN-24-0101", ClientName: "Ana Ruiz", Plates: "JKL-2041"}, Vehicle: SandboxVehicle{Brand: "Nissan", Type: "Versa", ModelYear: 2019}},
		{Order: domain.Order{ID: 102, ClaimCode: "SIN-24-0102", ClientName: "Luis Pérez", Plates: "MTR-5512"}, Vehicle: SandboxVehicle{Brand: "Volkswagen", Type: "Jetta", ModelYear: 2021}},
		{Order: domain.Order{ID: 103, ClaimCode: "SIN-24-0103", ClientName: "María González", Plates: "PQA-7730"}, Vehicle: SandboxVehicle{Brand: "Chevrolet", Type: "Aveo", ModelYear: 2017}},
		{Order: domain.Order{ID: 104, ClaimCode: "SIN-24-0104", ClientName: "Jorge Hernández", Plates: "UXB-1188"}, Vehicle: SandboxVehicle{Brand: "Toyota", Type: "Hilux", ModelYear: 2022}},
		{Order: domain.Order{ID: 105, ClaimCode: "SIN-24-0105", ClientName: "Sofía Ramírez", Plates: "NZD-9054"}, Vehicle: SandboxVehicle{Brand: "Kia", Type: "Rio", ModelYear: 2020}},
	}
}

// SeedDemo несколько записей вокруг today, чтобы календарь не был пустым
func (s *RecepcionSandboxService) SeedDemo(ctx context.Context, today json_types.Date) error {
	statuses := []domain.AppointmentStatus{
		domain.AppointmentStatusProgramada,
		domain.AppointmentStatusConfirmada,
		domain.AppointmentStatusCompletada,
		domain.AppointmentStatusCancelada,
		domain.AppointmentStatusEnEspera,
	}

	s.mu.RLock()
	orders := append([]SandboxOrder(nil), s.orders...)
	s.mu.RUnlock()

	for i, order := range orders {
		_, err := s.CreateAppointment(ctx, domain.AppointmentPayload{
			OrderID: order.ID,
			Date:    today.AddDays(i - 1),
			Time:    json_types.NewTime(9+i, 0),
			Status:  statuses[i%len(statuses)],
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *RecepcionSandboxService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, order.Order)
	}
	return orders, nil
}

func (s *RecepcionSandboxService) ListAppointments(ctx context.Context, r domain.DateRange) ([]domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Appointment, 0)
	for _, appointment := range s.appointments {
		if r.Contains(appointment.Date) {
			list = append(list, appointment)
		}
	}
	sortAppointments(list)
	return list, nil
}

func (s *RecepcionSandboxService) ListDaySummaries(ctx context.Context, r domain.DateRange) ([]domain.DaySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byKey := make(map[string]*domain.DaySummary)
	for _, appointment := range s.appointments {
		if !r.Contains(appointment.Date) {
			continue
		}
		summary, ok := byKey[appointment.Date.Key()]
		if !ok {
			summary = &domain.DaySummary{Date: appointment.Date}
			byKey[appointment.Date.Key()] = summary
		}

		summary.Total++
		switch {
		case pendingStatuses[appointment.Status]:
			summary.Pending++
		case appointment.Status == domain.AppointmentStatusCompletada:
			summary.Completed++
		case appointment.Status == domain.AppointmentStatusCancelada:
			summary.Cancelled++
		}
	}

	summaries := make([]domain.DaySummary, 0, len(byKey))
	for _, summary := range byKey {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date.Before(summaries[j].Date)
	})
	return summaries, nil
}

func (s *RecepcionSandboxService) CreateAppointment(ctx context.Context, payload domain.AppointmentPayload) (domain.Appointment, error) {
	if err := validateSandboxPayload(payload); err != nil {
		return domain.Appointment{}, err
	}

	s.mu.Lock()
	order, ok := s.findOrder(payload.OrderID)
	if !ok {
		s.mu.Unlock()
		return domain.Appointment{}, domain.ErrOrderNotFound
	}
	appointment := buildAppointment(s.nextID, order, payload)
	s.appointments[appointment.ID] = appointment
	s.nextID++
	s.mu.Unlock()

	s.logger.Info("sandbox.appointment.created", out.LogFields{
		"id":      appointment.ID,
		"orderId": appointment.OrderID,
		"date":    appointment.Date.Key(),
	})
	s.publish(ctx, domain.AgendaChange{AppointmentID: appointment.ID, Action: domain.AgendaChangeCreated, Date: appointment.Date})

	return appointment, nil
}

func (s *RecepcionSandboxService) UpdateAppointment(ctx context.Context, id int64, payload domain.AppointmentPayload) (domain.Appointment, error) {
	if err := validateSandboxPayload(payload); err != nil {
		return domain.Appointment{}, err
	}

	s.mu.Lock()
	previous, ok := s.appointments[id]
	if !ok {
		s.mu.Unlock()
		return domain.Appointment{}, domain.ErrAppointmentNotFound
	}
	order, ok := s.findOrder(payload.OrderID)
	if !ok {
		s.mu.Unlock()
		return domain.Appointment{}, domain.ErrOrderNotFound
	}
	appointment := buildAppointment(id, order, payload)
	s.appointments[id] = appointment
	s.mu.Unlock()

	s.logger.Info("sandbox.appointment.updated", out.LogFields{
		"id":   id,
		"date": appointment.Date.Key(),
	})

	// Перенос на другой день меняет оба дня
	s.publish(ctx, domain.AgendaChange{AppointmentID: id, Action: domain.AgendaChangeUpdated, Date: appointment.Date})
	if previous.Date != appointment.Date {
		s.publish(ctx, domain.AgendaChange{AppointmentID: id, Action: domain.AgendaChangeUpdated, Date: previous.Date})
	}

	return appointment, nil
}

func (s *RecepcionSandboxService) DeleteAppointment(ctx context.Context, id int64) error {
	s.mu.Lock()
	appointment, ok := s.appointments[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrAppointmentNotFound
	}
	delete(s.appointments, id)
	s.mu.Unlock()

	s.logger.Info("sandbox.appointment.deleted", out.LogFields{
		"id": id,
	})
	s.publish(ctx, domain.AgendaChange{AppointmentID: id, Action: domain.AgendaChangeDeleted, Date: appointment.Date})

	return nil
}

func (s *RecepcionSandboxService) findOrder(id int64) (SandboxOrder, bool) {
	for _, order := range s.orders {
		if order.ID == id {
			return order, true
		}
	}
	return SandboxOrder{}, false
}

// publish уведомление о записи; сбой брокера не ломает запись
func (s *RecepcionSandboxService) publish(ctx context.Context, change domain.AgendaChange) {
	if s.eventsPort == nil {
		return
	}
	if err := s.eventsPort.PublishChange(ctx, change); err != nil {
		s.logger.Warn("sandbox.change.publish_failed", out.LogFields{
			"id":    change.AppointmentID,
			"error": err.Error(),
		})
	}
}

func validateSandboxPayload(payload domain.AppointmentPayload) error {
	if payload.OrderID <= 0 {
		return &domain.ValidationError{Field: "orden_admision_id", Message: MsgSandboxOrderNotFound}
	}
	if payload.Date.IsZero() {
		return &domain.ValidationError{Field: "fecha_cita", Message: MsgSandboxInvalidDate}
	}
	if payload.Status != "" && !payload.Status.IsValid() {
		return &domain.ValidationError{Field: "estado", Message: MsgSandboxInvalidStatus}
	}
	return nil
}

func buildAppointment(id int64, order SandboxOrder, payload domain.AppointmentPayload) domain.Appointment {
	status := payload.Status
	if status == "" {
		status = domain.DefaultAppointmentStatus
	}

	var modelYear *int
	if order.Vehicle.ModelYear > 0 {
		year := order.Vehicle.ModelYear
		modelYear = &year
	}

	return domain.Appointment{
		ID:               id,
		OrderID:          order.ID,
		Date:             payload.Date,
		Time:             payload.Time,
		Status:           status,
		Notes:            payload.Notes,
		ClaimCode:        order.ClaimCode,
		ClientName:       order.ClientName,
		Plates:           order.Plates,
		VehicleBrand:     order.Vehicle.Brand,
		VehicleType:      order.Vehicle.Type,
		VehicleModelYear: modelYear,
	}
}
