package domain

import (
	"fmt"
	"strings"

	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
)

type AgendaChangeAction string

const (
	AgendaChangeCreated AgendaChangeAction = "created"
	AgendaChangeUpdated AgendaChangeAction = "updated"
	AgendaChangeDeleted AgendaChangeAction = "deleted"
)

// AgendaChange уведомление о том, что запись изменилась в другой сессии
type AgendaChange struct {
	AppointmentID int64              `json:"cita_id"`
	Action        AgendaChangeAction `json:"accion"`
	// Date пустая, если день неизвестен (например, после удаления)
	Date json_types.Date `json:"fecha_cita"`
}

// Affects затрагивает ли изменение диапазон
func (c AgendaChange) Affects(r DateRange) bool {
	if c.Date.IsZero() {
		return true
	}
	return r.Contains(c.Date)
}

func (a AgendaChangeAction) IsValid() bool {
	switch a {
	case AgendaChangeCreated, AgendaChangeUpdated, AgendaChangeDeleted:
		return true
	}
	return false
}

// RoutingKey ключ маршрутизации в topic exchange: <exchange>.<accion>,
// например recepcion.citas.created
func (c AgendaChange) RoutingKey(exchange string) string {
	return exchange + "." + string(c.Action)
}

// ParseAgendaRoutingKey достает действие из ключа маршрутизации
func ParseAgendaRoutingKey(exchange, routingKey string) (AgendaChangeAction, error) {
	prefix := exchange + "."
	if !strings.HasPrefix(routingKey, prefix) {
		return "", fmt.Errorf("invalid routing key: %s", routingKey)
	}

	action := AgendaChangeAction(strings.TrimPrefix(routingKey, prefix))
	if !action.IsValid() {
		return "", fmt.Errorf("unknown agenda change action in routing key: %s", routingKey)
	}
	return action, nil
}
