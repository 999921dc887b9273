package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[37m"
)

type ConsoleLogger struct {
	defaultFields out.LogFields
	module        string
	location      *time.Location
	minLevel      out.LogLevel
	writer        io.Writer
	// общий для всех производных логгеров, чтобы строки не перемешивались
	mu *sync.Mutex
}

// NewConsoleLogger пишет в w; если w == nil, то в stdout
func NewConsoleLogger(timezone string, level string, w io.Writer) (*ConsoleLogger, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	if w == nil {
		w = os.Stdout
	}

	return &ConsoleLogger{
		defaultFields: make(out.LogFields),
		location:      loc,
		minLevel:      out.ParseLogLevel(level),
		writer:        w,
		mu:            &sync.Mutex{},
	}, nil
}

func (l *ConsoleLogger) derive(module string, fields out.LogFields) *ConsoleLogger {
	return &ConsoleLogger{
		defaultFields: fields,
		module:        module,
		location:      l.location,
		minLevel:      l.minLevel,
		writer:        l.writer,
		mu:            l.mu,
	}
}

func (l *ConsoleLogger) WithFields(fields out.LogFields) out.LoggerPort {
	merged := make(out.LogFields, len(l.defaultFields)+len(fields))

	// Копируем существующие поля
	for k, v := range l.defaultFields {
		merged[k] = v
	}

	// Добавляем новые поля
	for k, v := range fields {
		merged[k] = v
	}

	return l.derive(l.module, merged)
}

func (l *ConsoleLogger) WithModule(module string) out.LoggerPort {
	return l.derive(module, l.defaultFields)
}

func (l *ConsoleLogger) Debug(event string, fields out.LogFields) {
	l.log(out.LogLevelDebug, event, fields)
}

func (l *ConsoleLogger) Info(event string, fields out.LogFields) {
	l.log(out.LogLevelInfo, event, fields)
}

func (l *ConsoleLogger) Warn(event string, fields out.LogFields) {
	l.log(out.LogLevelWarn, event, fields)
}

func (l *ConsoleLogger) Error(event string, fields out.LogFields) {
	l.log(out.LogLevelError, event, fields)
}

func (l *ConsoleLogger) log(level out.LogLevel, event string, fields out.LogFields) {
	if !level.Enabled(l.minLevel) {
		return
	}

	module := l.module
	if module == "" {
		module = "unknown"
	}

	// Объединяем поля
	mergedFields := make(out.LogFields)
	for k, v := range l.defaultFields {
		mergedFields[k] = v
	}
	for k, v := range fields {
		mergedFields[k] = v
	}

	mergedFields["event"] = event

	timestamp := time.Now().In(l.location).Format("2006-01-02 15:04:05.000")

	var levelColor string
	switch level {
	case out.LogLevelDebug:
		levelColor = colorGray
	case out.LogLevelInfo:
		levelColor = colorGreen
	case out.LogLevelWarn:
		levelColor = colorYellow
	case out.LogLevelError:
		levelColor = colorRed
	}

	fieldsBytes, err := json.MarshalIndent(mergedFields, "", "  ")
	if err != nil {
		fieldsBytes = []byte(fmt.Sprintf(`{"event": %q, "marshalError": %q}`, event, err.Error()))
	}

	logLine := fmt.Sprintf("%s[%s]%s %s[%s]%s %s[%s]%s\n%s\n",
		colorGray, timestamp, colorReset,
		levelColor, level, colorReset,
		colorCyan, module, colorReset,
		string(fieldsBytes),
	)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.writer, logLine)
}
