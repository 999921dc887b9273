package domain

import (
	"strings"

	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
)

type AppointmentStatus string

const (
	AppointmentStatusProgramada   AppointmentStatus = "Programada"
	AppointmentStatusConfirmada   AppointmentStatus = "Confirmada"
	AppointmentStatusReprogramada AppointmentStatus = "Reprogramada"
	AppointmentStatusEnEspera     AppointmentStatus = "En espera"
	AppointmentStatusDemorada     AppointmentStatus = "Demorada"
	AppointmentStatusCancelada    AppointmentStatus = "Cancelada"
	AppointmentStatusCompletada   AppointmentStatus = "Completada"
	AppointmentStatusNoShow       AppointmentStatus = "No show"
)

const DefaultAppointmentStatus = AppointmentStatusProgramada

// AppointmentStatuses в порядке показа пользователю
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusProgramada,
	AppointmentStatusConfirmada,
	AppointmentStatusReprogramada,
	AppointmentStatusEnEspera,
	AppointmentStatusDemorada,
	AppointmentStatusCancelada,
	AppointmentStatusCompletada,
	AppointmentStatusNoShow,
}

func (s AppointmentStatus) IsValid() bool {
	for _, status := range AppointmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Cita в том виде, в каком ее отдает GET /recepcion/citas.
// Поля клиента и автомобиля приходят из join на бэкенде и только для чтения.
type Appointment struct {
	ID               int64             `json:"id"`
	OrderID          int64             `json:"orden_admision_id"`
	Date             json_types.Date   `json:"fecha_cita"`
	Time             json_types.Time   `json:"hora_cita"`
	Status           AppointmentStatus `json:"estado"`
	Notes            *string           `json:"notas"`
	ClaimCode        string            `json:"reporte_siniestro"`
	ClientName       string            `json:"nb_cliente"`
	Plates           string            `json:"placas,omitempty"`
	VehicleBrand     string            `json:"marca_vehiculo"`
	VehicleType      string            `json:"tipo_vehiculo"`
	VehicleModelYear *int              `json:"modelo_anio"`
}

func (a Appointment) NotesText() string {
	if a.Notes == nil {
		return ""
	}
	return *a.Notes
}

// Matches проверяет вхождение строки поиска (без учета регистра)
// в имя клиента, номер отчета, номер машины, марку и тип
func (a Appointment) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{a.ClientName, a.ClaimCode, a.Plates, a.VehicleBrand, a.VehicleType} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// AppointmentPayload тело POST /recepcion/citas и PUT /recepcion/citas/{id}
type AppointmentPayload struct {
	OrderID int64             `json:"orden_admision_id"`
	Date    json_types.Date   `json:"fecha_cita"`
	Time    json_types.Time   `json:"hora_cita"`
	Status  AppointmentStatus `json:"estado"`
	Notes   *string           `json:"notas"`
}
