// Package service holds the application services that sit between the
// transports (HTTP, CLI) and the import engine: running an import with its
// side effects and publishing domain events to RabbitMQ.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/restaurant-catalog/internal/queue"
)

// EventPublisher delivers import events.  Implementations must not panic;
// errors are logged by the caller and never fail an import.
type EventPublisher interface {
	PublishImportCompleted(ctx context.Context, event queue.ImportCompletedEvent) error
}

// AMQPPublisher publishes events to a durable RabbitMQ queue.  It dials per
// publish, which suits the low rate of imports.
type AMQPPublisher struct {
	URL    string
	Queue  string
	Logger *zap.Logger
}

// PublishImportCompleted publishes an ImportCompletedEvent to the configured
// queue.  Any error is logged and returned so the caller can choose to
// ignore it.  Messages are marked as persistent.
func (p *AMQPPublisher) PublishImportCompleted(ctx context.Context, event queue.ImportCompletedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Logger.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Logger.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.Logger.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.Logger.Warn("rabbitmq: marshal event failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    event.ImportID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		p.Logger.Warn("rabbitmq: publish failed", zap.Error(err))
		return err
	}
	return nil
}
