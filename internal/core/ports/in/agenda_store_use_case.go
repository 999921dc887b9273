package in

import (
	"context"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
)

type AgendaStoreUseCase interface {
	// Загрузка диапазона с заменой кэша целиком
	LoadRange(ctx context.Context, r domain.DateRange) (domain.AgendaSnapshot, error)
	LoadMonth(ctx context.Context, monthCursor json_types.Date) (domain.AgendaSnapshot, error)
	ActiveRange() domain.DateRange

	ListOrders(ctx context.Context) ([]domain.Order, error)
	Orders() []domain.Order

	// Запись с обязательной перезагрузкой диапазона, открытого у пользователя
	Create(ctx context.Context, active domain.DateRange, payload domain.AppointmentPayload) error
	Update(ctx context.Context, active domain.DateRange, id int64, payload domain.AppointmentPayload) error
	Remove(ctx context.Context, active domain.DateRange, id int64) error

	// Проекции
	Snapshot() domain.AgendaSnapshot
	SnapshotFor(r domain.DateRange) (domain.AgendaSnapshot, bool)
	DayAppointments(date json_types.Date) []domain.Appointment
	DaySummary(date json_types.Date) (domain.DaySummary, bool)
	FindAppointment(id int64) (domain.Appointment, bool)
}
