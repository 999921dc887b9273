package out

import (
	"context"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
)

// RecepcionPort REST-бэкенд модуля recepcion
type RecepcionPort interface {
	// Справочник заказов
	ListOrders(ctx context.Context) ([]domain.Order, error)

	// Чтение по диапазону дат [from, to]
	ListAppointments(ctx context.Context, r domain.DateRange) ([]domain.Appointment, error)
	ListDaySummaries(ctx context.Context, r domain.DateRange) ([]domain.DaySummary, error)

	// Запись
	CreateAppointment(ctx context.Context, payload domain.AppointmentPayload) error
	UpdateAppointment(ctx context.Context, id int64, payload domain.AppointmentPayload) error
	DeleteAppointment(ctx context.Context, id int64) error
}
