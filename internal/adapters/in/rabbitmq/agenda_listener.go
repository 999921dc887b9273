package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autotaller/recepcion-agenda/internal/config"
	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AgendaChangeHandler получает изменения записей из других сессий
type AgendaChangeHandler func(change domain.AgendaChange)

type AgendaChangeListener struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	cfg      *config.Config
	logger   out.LoggerPort
	onChange AgendaChangeHandler
}

func NewAgendaChangeListener(cfg *config.Config, logger out.LoggerPort, onChange AgendaChangeHandler) (*AgendaChangeListener, error) {
	logger = logger.WithModule("AgendaChangeListener")

	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &AgendaChangeListener{
		conn:     conn,
		channel:  channel,
		cfg:      cfg,
		logger:   logger,
		onChange: onChange,
	}, nil
}

func (l *AgendaChangeListener) Start(ctx context.Context) error {
	exchange := l.cfg.RabbitMQ.Exchange

	err := l.channel.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	// Без имени очереди каждая сессия получает свою временную очередь
	exclusive := l.cfg.RabbitMQ.Queue == ""
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		false,     // durable
		true,      // delete when unused
		exclusive, // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return err
	}

	err = l.channel.QueueBind(
		queue.Name,
		exchange+".*",
		exchange,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	l.logger.Info("agenda.queue.started", out.LogFields{
		"queue":    queue.Name,
		"exchange": exchange,
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					l.logger.Warn("agenda.queue.closed", out.LogFields{
						"queue": queue.Name,
					})
					return
				}
				if err := l.processMessage(msg.RoutingKey, msg.Body); err != nil {
					l.logger.Warn("agenda.message.rejected", out.LogFields{
						"routingKey": msg.RoutingKey,
						"error":      err.Error(),
					})
					// Битое сообщение не вернется в очередь
					msg.Nack(false, false)
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

// processMessage разбирает уведомление; действие берется из ключа маршрутизации,
// если в теле его нет
func (l *AgendaChangeListener) processMessage(routingKey string, body []byte) error {
	action, err := domain.ParseAgendaRoutingKey(l.cfg.RabbitMQ.Exchange, routingKey)
	if err != nil {
		return err
	}

	var change domain.AgendaChange
	if len(body) > 0 {
		if err := json.Unmarshal(body, &change); err != nil {
			return fmt.Errorf("failed to decode agenda change: %w", err)
		}
	}
	if change.Action == "" {
		change.Action = action
	}

	l.logger.Debug("agenda.message.received", out.LogFields{
		"cita_id": change.AppointmentID,
		"accion":  change.Action,
		"fecha":   change.Date.Key(),
	})

	if l.onChange != nil {
		l.onChange(change)
	}
	return nil
}

func (l *AgendaChangeListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}
