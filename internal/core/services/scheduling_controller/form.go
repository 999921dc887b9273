package scheduling_controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
	"github.com/go-playground/validator/v10"
)

// FormValues значения полей формы в том виде, в каком их ввел пользователь
type FormValues struct {
	OrderID string `validate:"required,order_id"`
	Date    string `validate:"required,civil_date"`
	Time    string `validate:"required,clock_time"`
	Status  string `validate:"omitempty,appointment_status"`
	Notes   string
}

// Имена полей формы совпадают с полями тела запроса
const (
	FieldOrderID = "orden_admision_id"
	FieldDate    = "fecha_cita"
	FieldTime    = "hora_cita"
	FieldStatus  = "estado"
)

const (
	MsgOrderRequired   = "Selecciona una orden para la cita."
	MsgOrderInvalid    = "La orden seleccionada no es válida."
	MsgOrderNotLoaded  = "La orden seleccionada no existe."
	MsgDateRequired    = "Selecciona la fecha de la cita."
	MsgDateInvalid     = "La fecha de la cita no es válida."
	MsgTimeRequired    = "Selecciona la hora de la cita."
	MsgTimeInvalid     = "La hora de la cita no es válida."
	MsgStatusInvalid   = "Estado de cita no válido."
	MsgValidationError = "Revisa los datos de la cita."
)

// Порядок проверки полей: первая найденная ошибка возвращается пользователю
var formFieldOrder = []string{"OrderID", "Date", "Time", "Status"}

var formFieldNames = map[string]string{
	"OrderID": FieldOrderID,
	"Date":    FieldDate,
	"Time":    FieldTime,
	"Status":  FieldStatus,
}

var formMessages = map[string]string{
	"OrderID.required":          MsgOrderRequired,
	"OrderID.order_id":          MsgOrderInvalid,
	"Date.required":             MsgDateRequired,
	"Date.civil_date":           MsgDateInvalid,
	"Time.required":             MsgTimeRequired,
	"Time.clock_time":           MsgTimeInvalid,
	"Status.appointment_status": MsgStatusInvalid,
}

// AppointmentFormModel проверяет форму и собирает тело запроса
type AppointmentFormModel struct {
	validate *validator.Validate
}

func NewAppointmentFormModel() *AppointmentFormModel {
	v := validator.New()
	_ = v.RegisterValidation("order_id", func(fl validator.FieldLevel) bool {
		id, err := strconv.ParseInt(fl.Field().String(), 10, 64)
		return err == nil && id > 0
	})
	_ = v.RegisterValidation("civil_date", func(fl validator.FieldLevel) bool {
		_, err := json_types.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("clock_time", func(fl validator.FieldLevel) bool {
		_, err := json_types.ParseTime(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("appointment_status", func(fl validator.FieldLevel) bool {
		return domain.AppointmentStatus(fl.Field().String()).IsValid()
	})

	return &AppointmentFormModel{validate: v}
}

// Normalize обрезает пробелы и приводит дату и время к YYYY-MM-DD и HH:MM,
// если их удается разобрать
func (m *AppointmentFormModel) Normalize(values FormValues) FormValues {
	values.OrderID = strings.TrimSpace(values.OrderID)
	values.Date = strings.TrimSpace(values.Date)
	values.Time = strings.TrimSpace(values.Time)
	values.Status = strings.TrimSpace(values.Status)
	values.Notes = strings.TrimSpace(values.Notes)

	if d, err := json_types.ParseDate(values.Date); err == nil {
		values.Date = d.Key()
	}
	if t, err := json_types.ParseTime(values.Time); err == nil {
		values.Time = t.String()
	}
	return values
}

// Validate возвращает тело запроса или первую ошибку по порядку
// orden, fecha, hora, estado. Ничего не отправляет.
func (m *AppointmentFormModel) Validate(values FormValues, orders []domain.Order) (domain.AppointmentPayload, error) {
	values = m.Normalize(values)

	fieldErrs := map[string]string{}
	if err := m.validate.Struct(values); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return domain.AppointmentPayload{}, &domain.ValidationError{Message: MsgValidationError}
		}
		for _, fe := range validationErrs {
			if _, ok := fieldErrs[fe.Field()]; !ok {
				fieldErrs[fe.Field()] = formMessages[fe.Field()+"."+fe.Tag()]
			}
		}
	}

	for _, field := range formFieldOrder {
		if msg, ok := fieldErrs[field]; ok {
			return domain.AppointmentPayload{}, &domain.ValidationError{Field: formFieldNames[field], Message: msg}
		}
		if field == "OrderID" {
			id, _ := strconv.ParseInt(values.OrderID, 10, 64)
			if _, ok := domain.FindOrder(orders, id); !ok {
				return domain.AppointmentPayload{}, &domain.ValidationError{Field: FieldOrderID, Message: MsgOrderNotLoaded}
			}
		}
	}

	orderID, _ := strconv.ParseInt(values.OrderID, 10, 64)
	date, _ := json_types.ParseDate(values.Date)
	clock, _ := json_types.ParseTime(values.Time)

	status := domain.AppointmentStatus(values.Status)
	if status == "" {
		status = domain.DefaultAppointmentStatus
	}

	var notes *string
	if values.Notes != "" {
		text := values.Notes
		notes = &text
	}

	return domain.AppointmentPayload{
		OrderID: orderID,
		Date:    date,
		Time:    clock,
		Status:  status,
		Notes:   notes,
	}, nil
}

// FormFromAppointment заполняет форму редактирования. Дата и время уже
// приведены к YYYY-MM-DD и HH:MM при разборе ответа бэкенда.
func FormFromAppointment(a domain.Appointment) FormValues {
	values := FormValues{
		Date:   a.Date.Key(),
		Time:   a.Time.String(),
		Status: string(a.Status),
		Notes:  a.NotesText(),
	}
	if a.OrderID > 0 {
		values.OrderID = strconv.FormatInt(a.OrderID, 10)
	}
	if a.Date.IsZero() {
		values.Date = ""
	}
	if values.Status == "" {
		values.Status = string(domain.DefaultAppointmentStatus)
	}
	return values
}

// NewForm пустая форма создания на дату с временем по умолчанию
func NewForm(date json_types.Date, defaultTime string) FormValues {
	return FormValues{
		Date:   date.Key(),
		Time:   defaultTime,
		Status: string(domain.DefaultAppointmentStatus),
	}
}
