package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/autotaller/recepcion-agenda/internal/config"
	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// channelPublisher часть amqp.Channel, которая нужна для публикации
type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AgendaPublisher рассылает изменения записей в topic exchange
type AgendaPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	publish  channelPublisher
	exchange string
	logger   out.LoggerPort

	mu sync.Mutex
}

func NewAgendaPublisher(cfg *config.Config, logger out.LoggerPort) (*AgendaPublisher, error) {
	logger = logger.WithModule("AgendaPublisher")

	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, agenda changes will not be published",
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

	err = channel.ExchangeDeclare(
		cfg.RabbitMQ.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &AgendaPublisher{
		conn:     conn,
		channel:  channel,
		publish:  channel,
		exchange: cfg.RabbitMQ.Exchange,
		logger:   logger,
	}, nil
}

func (p *AgendaPublisher) PublishChange(ctx context.Context, change domain.AgendaChange) error {
	body, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to encode agenda change: %w", err)
	}

	routingKey := change.RoutingKey(p.exchange)

	p.mu.Lock()
	err = p.publish.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         body,
	})
	p.mu.Unlock()

	if err != nil {
		p.logger.Error("agenda.change.publish_failed", out.LogFields{
			"routingKey": routingKey,
			"error":      err.Error(),
		})
		return err
	}

	p.logger.Debug("agenda.change.published", out.LogFields{
		"routingKey": routingKey,
		"cita_id":    change.AppointmentID,
	})
	return nil
}

func (p *AgendaPublisher) Stop() error {
	if p == nil || p.channel == nil {
		return nil
	}

	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}
