package domain

import (
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
)

type CalendarCell struct {
	Date    json_types.Date
	InMonth bool
	Key     string
}

// DateRange закрытый интервал [From, To] гражданских дат
type DateRange struct {
	From json_types.Date
	To   json_types.Date
}

// MonthRange первый и последний день месяца
func MonthRange(monthCursor json_types.Date) DateRange {
	return DateRange{From: monthCursor.FirstOfMonth(), To: monthCursor.LastOfMonth()}
}

// WeekRange рабочая неделя понедельник - суббота
func WeekRange(date json_types.Date) DateRange {
	monday := date.StartOfWeekMonday()
	return DateRange{From: monday, To: monday.AddDays(5)}
}

// MonthBounds ключи первого и последнего дня месяца
func MonthBounds(monthCursor json_types.Date) (string, string) {
	return MonthRange(monthCursor).Keys()
}

func (r DateRange) Keys() (string, string) {
	return r.From.Key(), r.To.Key()
}

func (r DateRange) Contains(date json_types.Date) bool {
	return !date.Before(r.From) && !date.After(r.To)
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

func (r DateRange) String() string {
	return r.From.Key() + ".." + r.To.Key()
}
