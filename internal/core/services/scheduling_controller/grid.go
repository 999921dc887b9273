package scheduling_controller

import (
	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
)

const DaysPerWeek = 7

// BuildGrid сетка месяца из целых недель, неделя начинается с воскресенья.
// Учитываются только год и месяц monthCursor.
func BuildGrid(monthCursor json_types.Date) []domain.CalendarCell {
	first := monthCursor.FirstOfMonth()
	last := monthCursor.LastOfMonth()
	leading := int(first.Weekday())

	cells := make([]domain.CalendarCell, 0, 6*DaysPerWeek)

	// Хвост предыдущего месяца до воскресенья
	for i := leading; i > 0; i-- {
		cells = append(cells, newCell(first.AddDays(-i), false))
	}

	for d := first; !d.After(last); d = d.AddDays(1) {
		cells = append(cells, newCell(d, true))
	}

	// Добиваем до конца недели днями следующего месяца
	for next := last.AddDays(1); len(cells)%DaysPerWeek != 0; next = next.AddDays(1) {
		cells = append(cells, newCell(next, false))
	}

	return cells
}

func newCell(d json_types.Date, inMonth bool) domain.CalendarCell {
	return domain.CalendarCell{Date: d, InMonth: inMonth, Key: d.Key()}
}

var weekDayLabels = []string{"LUN", "MAR", "MIÉ", "JUE", "VIE", "SÁB"}

// WeekDays рабочие дни (понедельник - суббота) недели, в которую входит date
func WeekDays(date json_types.Date) []json_types.Date {
	monday := date.StartOfWeekMonday()
	days := make([]json_types.Date, len(weekDayLabels))
	for i := range days {
		days[i] = monday.AddDays(i)
	}
	return days
}
