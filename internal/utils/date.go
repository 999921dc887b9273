package utils

import "time"

// Гражданский календарь без часовых поясов: год, месяц и день как целые числа.
// Номер дня отсчитывается от 1970-01-01 (день 0).

const unixEpochWeekday = int(time.Thursday)

// IsLeapYear проверяет високосный год по григорианскому правилу
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth возвращает количество дней в месяце
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// DaysFromCivil переводит дату в номер дня относительно 1970-01-01
func DaysFromCivil(year int, month time.Month, day int) int {
	y := year
	if month <= time.February {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (int(month) + 9) % 12
	doy := (153*mp+2)/5 + day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// CivilFromDays обратная операция к DaysFromCivil
func CivilFromDays(days int) (int, time.Month, int) {
	z := days + 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	year := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day := doy - (153*mp+2)/5 + 1
	month := mp + 3
	if month > 12 {
		month -= 12
	}
	if month <= 2 {
		year++
	}
	return year, time.Month(month), day
}

// WeekdayOf возвращает день недели, 0 = воскресенье
func WeekdayOf(year int, month time.Month, day int) time.Weekday {
	return time.Weekday(floorMod(DaysFromCivil(year, month, day)+unixEpochWeekday, 7))
}

// ShiftMonth сдвигает (год, месяц) на delta месяцев с переходом через год
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	total := year*12 + int(month) - 1 + delta
	return floorDiv(total, 12), time.Month(floorMod(total, 12) + 1)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
