package json_types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/autotaller/recepcion-agenda/internal/utils"
)

const DateKeyLayout = "YYYY-MM-DD"

// Date гражданская дата без времени и таймзоны.
// Нулевое значение означает "дата не задана".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf берет календарные поля из t в его собственной локации, без перевода в UTC
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate разбирает ключ YYYY-MM-DD. Суффикс времени после 'T' или пробела
// (например 2024-06-10T00:00:00) отбрасывается.
func ParseDate(str string) (Date, error) {
	if len(str) < 10 {
		return Date{}, fmt.Errorf("failed to parse date %q: expected %s", str, DateKeyLayout)
	}
	if len(str) > 10 && str[10] != 'T' && str[10] != ' ' {
		return Date{}, fmt.Errorf("failed to parse date %q: unexpected suffix", str)
	}
	if str[4] != '-' || str[7] != '-' {
		return Date{}, fmt.Errorf("failed to parse date %q: expected %s", str, DateKeyLayout)
	}

	year, err := parseDigits(str[0:4])
	if err != nil {
		return Date{}, fmt.Errorf("failed to parse date %q: %w", str, err)
	}
	month, err := parseDigits(str[5:7])
	if err != nil {
		return Date{}, fmt.Errorf("failed to parse date %q: %w", str, err)
	}
	day, err := parseDigits(str[8:10])
	if err != nil {
		return Date{}, fmt.Errorf("failed to parse date %q: %w", str, err)
	}

	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("failed to parse date %q: month out of range", str)
	}
	if day < 1 || day > utils.DaysInMonth(year, time.Month(month)) {
		return Date{}, fmt.Errorf("failed to parse date %q: day out of range", str)
	}

	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q", r)
		}
	}
	return strconv.Atoi(s)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Key канонический ключ YYYY-MM-DD
func (d Date) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) String() string {
	return d.Key()
}

func (d Date) days() int {
	return utils.DaysFromCivil(d.Year, d.Month, d.Day)
}

func (d Date) AddDays(n int) Date {
	y, m, day := utils.CivilFromDays(d.days() + n)
	return Date{Year: y, Month: m, Day: day}
}

// AddMonths сдвигает месяц, день ограничивается длиной нового месяца
func (d Date) AddMonths(n int) Date {
	y, m := utils.ShiftMonth(d.Year, d.Month, n)
	day := d.Day
	if last := utils.DaysInMonth(y, m); day > last {
		day = last
	}
	return Date{Year: y, Month: m, Day: day}
}

func (d Date) Weekday() time.Weekday {
	return utils.WeekdayOf(d.Year, d.Month, d.Day)
}

func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

func (d Date) LastOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: utils.DaysInMonth(d.Year, d.Month)}
}

// StartOfWeekMonday понедельник недели, в которую входит дата
func (d Date) StartOfWeekMonday() Date {
	wd := int(d.Weekday())
	if wd == 0 {
		return d.AddDays(-6)
	}
	return d.AddDays(1 - wd)
}

// Compare возвращает -1, 0 или 1
func (d Date) Compare(other Date) int {
	a, b := d.days(), other.days()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

func (d Date) SameMonth(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("failed to parse date: %v", err)
	}

	parsed, err := ParseDate(str)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal(nil)
	}
	return json.Marshal(d.Key())
}
