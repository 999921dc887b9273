package in

import (
	"context"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
)

// RecepcionSandboxUseCase бэкенд приема в памяти для локального запуска
type RecepcionSandboxUseCase interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListAppointments(ctx context.Context, r domain.DateRange) ([]domain.Appointment, error)
	ListDaySummaries(ctx context.Context, r domain.DateRange) ([]domain.DaySummary, error)
	CreateAppointment(ctx context.Context, payload domain.AppointmentPayload) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, payload domain.AppointmentPayload) (domain.Appointment, error)
	DeleteAppointment(ctx context.Context, id int64) error
}
