package recepcion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"strconv"

	"github.com/autotaller/recepcion-agenda/internal/config"
	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
	"github.com/google/uuid"
)

const (
	ordersPath       = "/recepcion/ordenes"
	appointmentsPath = "/recepcion/citas"
	summariesPath    = "/recepcion/citas/resumen"

	RequestIDHeader = "X-Request-ID"
)

type RecepcionAdapter struct {
	client  *http.Client
	baseURL string
	logger  out.LoggerPort
}

func NewRecepcionAdapter(cfg *config.Config, logger out.LoggerPort) *RecepcionAdapter {
	return &RecepcionAdapter{
		client:  &http.Client{Timeout: cfg.Recepcion.Timeout},
		baseURL: cfg.Recepcion.URL,
		logger:  logger,
	}
}

// errorBody тело ошибки бэкенда; detail бывает строкой или списком
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (a *RecepcionAdapter) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := a.getJSON(ctx, "recepcion.orders", ordersPath, nil, domain.MsgLoadOrdersFailed, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (a *RecepcionAdapter) ListAppointments(ctx context.Context, r domain.DateRange) ([]domain.Appointment, error) {
	var appointments []domain.Appointment
	if err := a.getJSON(ctx, "recepcion.appointments", appointmentsPath, rangeQuery(r), domain.MsgLoadAppointments, &appointments); err != nil {
		return nil, err
	}
	if appointments == nil {
		appointments = []domain.Appointment{}
	}
	return appointments, nil
}

func (a *RecepcionAdapter) ListDaySummaries(ctx context.Context, r domain.DateRange) ([]domain.DaySummary, error) {
	var summaries []domain.DaySummary
	if err := a.getJSON(ctx, "recepcion.summaries", summariesPath, rangeQuery(r), domain.MsgLoadSummaries, &summaries); err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []domain.DaySummary{}
	}
	return summaries, nil
}

func (a *RecepcionAdapter) CreateAppointment(ctx context.Context, payload domain.AppointmentPayload) error {
	return a.send(ctx, "recepcion.appointment.create", http.MethodPost, appointmentsPath, payload, domain.MsgSaveFailed)
}

func (a *RecepcionAdapter) UpdateAppointment(ctx context.Context, id int64, payload domain.AppointmentPayload) error {
	return a.send(ctx, "recepcion.appointment.update", http.MethodPut, appointmentPath(id), payload, domain.MsgSaveFailed)
}

func (a *RecepcionAdapter) DeleteAppointment(ctx context.Context, id int64) error {
	return a.send(ctx, "recepcion.appointment.delete", http.MethodDelete, appointmentPath(id), nil, domain.MsgDeleteFailed)
}

func rangeQuery(r domain.DateRange) nurl.Values {
	from, to := r.Keys()
	query := nurl.Values{}
	query.Add("from", from)
	query.Add("to", to)
	return query
}

func appointmentPath(id int64) string {
	return appointmentsPath + "/" + strconv.FormatInt(id, 10)
}

func (a *RecepcionAdapter) getJSON(ctx context.Context, op string, path string, query nurl.Values, fallback string, dest interface{}) error {
	resp, err := a.do(ctx, op, http.MethodGet, path, query, nil, fallback)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		a.logger.Error(op+".decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return fmt.Errorf("%s: decode response: %w", op, err)
	}

	return nil
}

func (a *RecepcionAdapter) send(ctx context.Context, op string, method string, path string, body interface{}, fallback string) error {
	resp, err := a.do(ctx, op, method, path, nil, body, fallback)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// do выполняет запрос и переводит неуспешный ответ в RequestError или NetworkError
func (a *RecepcionAdapter) do(ctx context.Context, op string, method string, path string, query nurl.Values, body interface{}, fallback string) (*http.Response, error) {
	requestID := uuid.New().String()
	logger := a.logger.WithFields(out.LogFields{
		"requestId": requestID,
		"method":    method,
		"path":      path,
	})

	logger.Debug(op, out.LogFields{
		"query": query.Encode(),
	})

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	url := a.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		logger.Error(op+".request_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, &domain.NetworkError{Op: op, Message: fallback, Err: err}
	}

	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		logger.Error(op+".request_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, &domain.NetworkError{Op: op, Message: fallback, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		message := detailMessage(resp.Body, fallback)
		logger.Error(op+".unexpected_status", out.LogFields{
			"status": resp.StatusCode,
			"detail": message,
		})
		return nil, &domain.RequestError{Op: op, StatusCode: resp.StatusCode, Message: message}
	}

	return resp, nil
}

// detailMessage берет detail из тела ошибки как есть, иначе fallback
func detailMessage(body io.Reader, fallback string) string {
	var parsed errorBody
	if err := json.NewDecoder(io.LimitReader(body, 64<<10)).Decode(&parsed); err != nil {
		return fallback
	}

	var detail string
	if err := json.Unmarshal(parsed.Detail, &detail); err != nil || detail == "" {
		return fallback
	}
	return detail
}
