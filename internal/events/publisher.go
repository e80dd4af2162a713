// Package events publishes deal lifecycle events to RabbitMQ.
// The publisher is optional; when disabled a no-op implementation is used
// so services can always call Publish without nil checks.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vendaflow/crm-api/internal/config"
	"go.uber.org/zap"
)

const (
	EventDealCreated      = "deal.created"
	EventDealStageChanged = "deal.stage_changed"
	EventDealWon          = "deal.won"
	EventDealLost         = "deal.lost"
)

// DealEvent is the message body published for deal lifecycle changes
type DealEvent struct {
	Event      string     `json:"event"`
	DealID     uuid.UUID  `json:"dealId"`
	PipelineID uuid.UUID  `json:"pipelineId"`
	StageID    uuid.UUID  `json:"stageId"`
	Value      *float64   `json:"value,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}

// Publisher emits deal events
type Publisher interface {
	Publish(ctx context.Context, event DealEvent) error
	Close() error
}

// NopPublisher discards all events
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event DealEvent) error { return nil }
func (NopPublisher) Close() error                                       { return nil }

// RabbitPublisher publishes deal events to a durable topic exchange with
// a dead letter queue for undeliverable messages.
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewPublisher connects to the broker when events are enabled, otherwise
// returns a NopPublisher.
func NewPublisher(cfg *config.EventsConfig, logger *zap.Logger) (Publisher, error) {
	if !cfg.Enabled {
		return NopPublisher{}, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := setupTopology(ch, cfg.Exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("event publisher connected",
		zap.String("exchange", cfg.Exchange))

	return &RabbitPublisher{
		conn:     conn,
		ch:       ch,
		exchange: cfg.Exchange,
		logger:   logger,
	}, nil
}

func setupTopology(ch *amqp.Channel, exchange string) error {
	dlx := exchange + ".dlx"
	dlq := exchange + ".dlq"

	if err := ch.ExchangeDeclare(dlx, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter queue: %w", err)
	}
	if err := ch.QueueBind(dlq, "", dlx, false, nil); err != nil {
		return fmt.Errorf("failed to bind dead letter queue: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	args := amqp.Table{"x-dead-letter-exchange": dlx}
	queue := exchange + ".all"
	if _, err := ch.QueueDeclare(queue, true, false, false, false, args); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(queue, "deal.#", exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	return nil
}

// Publish sends the event using its name as routing key
func (p *RabbitPublisher) Publish(ctx context.Context, event DealEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		p.exchange,
		event.Event,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close shuts down the channel and connection
func (p *RabbitPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
