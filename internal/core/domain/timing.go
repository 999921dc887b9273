package domain

import "time"

// OperationTiming замер длительности обращения к бэкенду для логов
type OperationTiming struct {
	Event     string            `json:"event"`
	Timing    int64             `json:"timing"`
	StartTime time.Time         `json:"-"`
	Options   map[string]string `json:"options,omitempty"`
}

func StartTiming(event string) *OperationTiming {
	return &OperationTiming{Event: event, StartTime: time.Now()}
}

func (d *OperationTiming) Elapse() int64 {
	d.Timing = time.Since(d.StartTime).Milliseconds()
	return d.Timing
}

func (d *OperationTiming) AddOption(key string, value string) {
	if d.Options == nil {
		d.Options = make(map[string]string)
	}
	d.Options[key] = value
}
