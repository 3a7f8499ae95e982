package mq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ReadingEvent is published when a water quality reading is stored
type ReadingEvent struct {
	ReadingID  string `json:"reading_id"`
	LocationID string `json:"location_id"`
	Timestamp  string `json:"timestamp"`
}

// PredictionEvent is published when a potability prediction completes
type PredictionEvent struct {
	ReadingID  string  `json:"reading_id"`
	Potable    bool    `json:"potable"`
	Confidence float64 `json:"confidence"`
}

// EventPublisher publishes domain events. Publishing is always best-effort:
// callers log failures and move on.
type EventPublisher interface {
	PublishReadingCreated(ctx context.Context, event ReadingEvent) error
	PublishPredictionCompleted(ctx context.Context, event PredictionEvent) error
}

// Publisher publishes domain events to a RabbitMQ topic exchange
type Publisher struct {
	conn                 *Connection
	channel              *amqp.Channel
	exchange             string
	readingRoutingKey    string
	predictionRoutingKey string
	logger               *zap.Logger
}

// NewPublisher creates a new RabbitMQ publisher
func NewPublisher(conn *Connection, exchange, readingRoutingKey, predictionRoutingKey string, logger *zap.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	// Declare exchange
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:                 conn,
		channel:              ch,
		exchange:             exchange,
		readingRoutingKey:    readingRoutingKey,
		predictionRoutingKey: predictionRoutingKey,
		logger:               logger,
	}, nil
}

// PublishReadingCreated publishes a reading created event
func (p *Publisher) PublishReadingCreated(ctx context.Context, event ReadingEvent) error {
	if err := p.publish(ctx, p.readingRoutingKey, event); err != nil {
		return err
	}

	p.logger.Debug("published reading created event",
		zap.String("routing_key", p.readingRoutingKey),
		zap.String("reading_id", event.ReadingID),
	)
	return nil
}

// PublishPredictionCompleted publishes a prediction completed event
func (p *Publisher) PublishPredictionCompleted(ctx context.Context, event PredictionEvent) error {
	if err := p.publish(ctx, p.predictionRoutingKey, event); err != nil {
		return err
	}

	p.logger.Debug("published prediction completed event",
		zap.String("routing_key", p.predictionRoutingKey),
		zap.String("reading_id", event.ReadingID),
		zap.Bool("potable", event.Potable),
	)
	return nil
}

func (p *Publisher) publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close closes the publisher channel
func (p *Publisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}

// NoopPublisher is wired when event publishing is not configured
type NoopPublisher struct{}

// PublishReadingCreated does nothing
func (NoopPublisher) PublishReadingCreated(ctx context.Context, event ReadingEvent) error {
	return nil
}

// PublishPredictionCompleted does nothing
func (NoopPublisher) PublishPredictionCompleted(ctx context.Context, event PredictionEvent) error {
	return nil
}
