package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrStaleLoad результат загрузки устарел и не был записан в кэш
	ErrStaleLoad           = errors.New("stale agenda load discarded")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrOrderNotFound       = errors.New("order not found")
)

// Сообщения по умолчанию для пользователя, по одной на операцию
const (
	MsgLoadOrdersFailed    = "No se pudieron cargar órdenes."
	MsgLoadAppointments    = "No se pudieron cargar citas."
	MsgLoadSummaries       = "No se pudo cargar resumen de citas."
	MsgSaveFailed          = "No se pudo guardar la cita."
	MsgDeleteFailed        = "No se pudo eliminar la cita."
	MsgRefreshFailed       = "No se pudo refrescar agenda."
	MsgSavedRefreshFailed  = "La cita se guardó, pero no se pudo refrescar la agenda."
	MsgDeleteRefreshFailed = "La cita se eliminó, pero no se pudo refrescar la agenda."
)

// ValidationError нарушение в форме, до сети не доходит
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RequestError бэкенд ответил не 2xx
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// Rejected 4xx: бэкенд отклонил данные, текст detail показывается как есть
func (e *RequestError) Rejected() bool {
	return e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError
}

// NetworkError запрос не удалось выполнить
type NetworkError struct {
	Op      string
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// FetchError не удалась загрузка диапазона, кэш не изменен
type FetchError struct {
	Range DateRange
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("agenda fetch %s: %v", e.Range, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RefreshError запись на бэкенде прошла, но перезагрузка диапазона нет
type RefreshError struct {
	Message string
	Err     error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh after write: %v", e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// UserMessage текст ошибки для показа рядом с элементом интерфейса
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	var refreshErr *RefreshError
	if errors.As(err, &refreshErr) && refreshErr.Message != "" {
		return refreshErr.Message
	}
	var requestErr *RequestError
	if errors.As(err, &requestErr) && requestErr.Message != "" {
		return requestErr.Message
	}
	var networkErr *NetworkError
	if errors.As(err, &networkErr) && networkErr.Message != "" {
		return networkErr.Message
	}

	return fallback
}
