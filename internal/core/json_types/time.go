package json_types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Time время суток с точностью до минуты, без таймзоны
type Time struct {
	Hour   int
	Minute int
}

func NewTime(hour, minute int) Time {
	return Time{Hour: hour, Minute: minute}
}

// ParseTime разбирает HH:MM. Секунды и доли секунды (09:00:00, 09:00:00.123)
// отбрасываются.
func ParseTime(str string) (Time, error) {
	parts := strings.Split(strings.TrimSpace(str), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Time{}, fmt.Errorf("failed to parse time %q: expected HH:MM", str)
	}
	if len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return Time{}, fmt.Errorf("failed to parse time %q: expected HH:MM", str)
	}

	hour, err := parseDigits(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return Time{}, fmt.Errorf("failed to parse time %q: hour out of range", str)
	}
	minute, err := parseDigits(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return Time{}, fmt.Errorf("failed to parse time %q: minute out of range", str)
	}
	if len(parts) == 3 {
		secs := parts[2]
		if i := strings.IndexByte(secs, '.'); i >= 0 {
			secs = secs[:i]
		}
		if sec, err := parseDigits(secs); err != nil || sec < 0 || sec > 59 {
			return Time{}, fmt.Errorf("failed to parse time %q: invalid seconds", str)
		}
	}

	return Time{Hour: hour, Minute: minute}, nil
}

// String всегда HH:MM с ведущими нулями, поэтому лексическое сравнение
// совпадает с хронологическим
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t Time) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("failed to parse time: %v", err)
	}

	parsed, err := ParseTime(str)
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
