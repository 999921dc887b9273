package domain

import (
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
)

// DaySummary агрегаты по дню, которые считает бэкенд.
// Клиент не знает правила группировки статусов и не пересчитывает их.
type DaySummary struct {
	Date      json_types.Date `json:"fecha_cita"`
	Total     int             `json:"total_citas"`
	Pending   int             `json:"pendientes"`
	Completed int             `json:"completadas"`
	Cancelled int             `json:"canceladas"`
}

// Active количество неотмененных записей
func (s DaySummary) Active() int {
	active := s.Total - s.Cancelled
	if active < 0 {
		return 0
	}
	return active
}
