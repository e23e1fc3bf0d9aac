package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	CustomerEventsQueue = "customer_events"

	connectAttempts = 10
	connectDelay    = 2 * time.Second
	publishTimeout  = 2 * time.Second
)

type RabbitMQ struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	queue   amqp091.Queue

	// publishes come from concurrent request handlers
	mu sync.Mutex
}

// CustomerEvent announces a committed change to a customer record.
type CustomerEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Action     string    `json:"action"`
	CustomerID int32     `json:"customer_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewRabbitMQ creates a new RabbitMQ connection and declares the customer_events queue
func NewRabbitMQ(url string) (*RabbitMQ, error) {
	var conn *amqp091.Connection
	var err error

	for i := 0; i < connectAttempts; i++ {
		conn, err = amqp091.Dial(url)
		if err == nil {
			break
		}
		log.Warn().Err(err).Msgf("failed to connect to RabbitMQ, retrying in %v (%d/%d)", connectDelay, i+1, connectAttempts)
		if i < connectAttempts-1 {
			time.Sleep(connectDelay)
		}
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to connect to RabbitMQ after retries")
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		log.Error().Err(err).Msg("failed to open channel")
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queue, err := channel.QueueDeclare(
		CustomerEventsQueue, // name
		true,                // durable
		false,               // delete when unused
		false,               // exclusive
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		log.Error().Err(err).Msg("failed to declare queue")
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	log.Info().Str("queue", queue.Name).Msg("connected to RabbitMQ")

	return &RabbitMQ{
		conn:    conn,
		channel: channel,
		queue:   queue,
	}, nil
}

// PublishCustomerEvent publishes a persistent customer event to the customer_events queue
func (r *RabbitMQ) PublishCustomerEvent(action string, customerID int32) error {
	event := CustomerEvent{
		EventID:    uuid.New(),
		Action:     action,
		CustomerID: customerID,
		OccurredAt: time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	r.mu.Lock()
	err = r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key (queue name)
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			DeliveryMode: amqp091.Persistent,
			ContentType:  "application/json",
			MessageId:    event.EventID.String(),
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().Str("event_id", event.EventID.String()).Str("action", action).Int32("customer_id", customerID).Msg("published customer event")
	return nil
}

// Consume registers a manually acknowledged consumer on the customer_events
// queue. prefetch bounds the number of unacknowledged deliveries in flight.
func (r *RabbitMQ) Consume(consumerTag string, prefetch int) (<-chan amqp091.Delivery, error) {
	if err := r.channel.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}

	deliveries, err := r.channel.Consume(r.queue.Name, consumerTag, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer %q: %w", consumerTag, err)
	}
	return deliveries, nil
}

var (
	errConnectionClosed = errors.New("amqp connection is closed")
	errChannelClosed    = errors.New("amqp channel is closed")
)

// Ping reports whether both the connection and the channel are still open.
func (r *RabbitMQ) Ping() error {
	switch {
	case r.conn == nil || r.conn.IsClosed():
		return errConnectionClosed
	case r.channel == nil || r.channel.IsClosed():
		return errChannelClosed
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	var errs []error
	if r.channel != nil && !r.channel.IsClosed() {
		if err := r.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		log.Error().Err(err).Msg("failed to close RabbitMQ cleanly")
		return err
	}
	log.Info().Msg("closed RabbitMQ connection")
	return nil
}
