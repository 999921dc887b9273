package scheduling_controller

import (
	"math"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
	"github.com/autotaller/recepcion-agenda/internal/core/services"
)

// DayCell клетка сетки месяца со сводкой дня
type DayCell struct {
	domain.CalendarCell
	Summary    domain.DaySummary
	HasSummary bool
	Selected   bool
	Today      bool
	// Full день заполнен до дневной вместимости
	Full bool
}

type WeekColumn struct {
	Date         json_types.Date
	Label        string
	Appointments []domain.Appointment
	Summary      domain.DaySummary
	Selected     bool
	Today        bool
}

// Totals панель итогов по активному диапазону, только из серверных сводок
type Totals struct {
	Total      int
	Pending    int
	Completed  int
	Cancelled  int
	TodayTotal int
	Capacity   int
	Occupancy  int
}

// viewSnapshot один снимок на все проекции экрана, чтобы сетка, список дня
// и итоги не расходились
func (c *SchedulingController) viewSnapshot(s State) domain.AgendaSnapshot {
	if snapshot, ok := c.store.SnapshotFor(s.ActiveRange()); ok {
		return snapshot
	}
	return c.store.Snapshot()
}

// Stale на экране снимок из истории, пока грузится актуальный
func (c *SchedulingController) Stale(s State) bool {
	snapshot, ok := c.store.SnapshotFor(s.ActiveRange())
	return ok && snapshot.Stale
}

func (c *SchedulingController) Grid(s State) []DayCell {
	snapshot := c.viewSnapshot(s)
	grid := BuildGrid(s.Cursor)

	cells := make([]DayCell, len(grid))
	for i, cell := range grid {
		summary, ok := snapshot.Summaries[cell.Key]
		cells[i] = DayCell{
			CalendarCell: cell,
			Summary:      summary,
			HasSummary:   ok,
			Selected:     cell.Date == s.SelectedDate,
			Today:        cell.Date == s.Today,
			Full:         ok && summary.Active() >= c.opts.DayCapacity,
		}
	}
	return cells
}

// DayList записи выбранного дня с учетом поиска, по HH:MM
func (c *SchedulingController) DayList(s State) []domain.Appointment {
	return filterSearch(services.FilterDay(c.viewSnapshot(s).Appointments, s.SelectedDate), s.Search)
}

func (c *SchedulingController) WeekColumns(s State) []WeekColumn {
	snapshot := c.viewSnapshot(s)
	days := WeekDays(s.Cursor)

	columns := make([]WeekColumn, len(days))
	for i, day := range days {
		columns[i] = WeekColumn{
			Date:         day,
			Label:        weekDayLabels[i],
			Appointments: filterSearch(services.FilterDay(snapshot.Appointments, day), s.Search),
			Summary:      snapshot.Summaries[day.Key()],
			Selected:     day == s.SelectedDate,
			Today:        day == s.Today,
		}
	}
	return columns
}

func (c *SchedulingController) Totals(s State) Totals {
	snapshot := c.viewSnapshot(s)
	r := s.ActiveRange()

	var totals Totals
	for _, summary := range snapshot.Summaries {
		if !r.Contains(summary.Date) {
			continue
		}
		totals.Total += summary.Total
		totals.Pending += summary.Pending
		totals.Completed += summary.Completed
		totals.Cancelled += summary.Cancelled
	}
	if today, ok := snapshot.Summaries[s.Today.Key()]; ok {
		totals.TodayTotal = today.Total
	}

	totals.Capacity = c.Capacity(s.View)
	totals.Occupancy = occupancy(totals.Total-totals.Cancelled, totals.Capacity)
	return totals
}

// Capacity мест за диапазон: 6 рабочих дней в неделю
func (c *SchedulingController) Capacity(view ViewMode) int {
	if view == ViewWeek {
		return 6 * c.opts.DayCapacity
	}
	return c.opts.MonthCapacity
}

func (c *SchedulingController) DayCapacity() int {
	return c.opts.DayCapacity
}

// Orders заказы, доступные для записи
func (c *SchedulingController) Orders() []domain.Order {
	return c.store.Orders()
}

func occupancy(active, capacity int) int {
	if capacity <= 0 || active <= 0 {
		return 0
	}
	pct := int(math.Round(float64(active) * 100 / float64(capacity)))
	if pct > 100 {
		return 100
	}
	return pct
}

func filterSearch(appointments []domain.Appointment, query string) []domain.Appointment {
	filtered := make([]domain.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		if appointment.Matches(query) {
			filtered = append(filtered, appointment)
		}
	}
	return filtered
}
