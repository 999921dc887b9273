package domain

import (
	"time"
)

// AgendaSnapshot содержимое кэша за один загруженный диапазон
type AgendaSnapshot struct {
	Range        DateRange
	Appointments []Appointment
	Summaries    map[string]DaySummary
	LoadedAt     time.Time
	// Stale снимок взят из истории, а не из последней загрузки
	Stale bool
}

// Clone глубокая копия, чтобы вызывающий код не мог изменить кэш
func (s AgendaSnapshot) Clone() AgendaSnapshot {
	clone := s
	clone.Appointments = append([]Appointment(nil), s.Appointments...)
	clone.Summaries = make(map[string]DaySummary, len(s.Summaries))
	for k, v := range s.Summaries {
		clone.Summaries[k] = v
	}
	return clone
}
